// Package cli implements the yt-audio command line: the HTTP service, a
// metadata probe and config helpers.
package cli
