// Package extractor adapts yt-dlp (via github.com/lrstanley/go-ytdlp) to the
// two operations the pipeline needs: a metadata-only probe and an audio
// download that writes one file, or one file per chapter, into a caller-owned
// working directory. It also classifies extractor failures.
package extractor
