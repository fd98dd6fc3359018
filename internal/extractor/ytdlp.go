package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt-audio/internal/model"
)

// Extraction defaults
const (
	DefaultFormat          = "bestaudio/best"
	DefaultAudioFormat     = "mp3"
	DefaultAudioQuality    = "192K"
	DefaultTitleTemplate   = "%(title)s.%(ext)s"
	DefaultChapterTemplate = "%(title)s - %(section_number)03d - %(section_title)s.%(ext)s"

	chapterOutputType = "chapter:"
)

// Extractor is the external media-extraction collaborator
type Extractor interface {
	// Probe fetches metadata only; no media is downloaded
	Probe(ctx context.Context, url string) (*model.MediaInfo, error)

	// FetchAudio downloads and transcodes into workDir, one file per chapter
	// when splitByChapter is set. It never removes anything it wrote.
	FetchAudio(ctx context.Context, url, workDir string, splitByChapter bool) error
}

// Options configures the yt-dlp adapter
type Options struct {
	Executable      string // empty means resolve from PATH/cache
	Format          string
	AudioFormat     string
	AudioQuality    string
	TitleTemplate   string
	ChapterTemplate string
}

func (o *Options) applyDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.AudioFormat == "" {
		o.AudioFormat = DefaultAudioFormat
	}
	if o.AudioQuality == "" {
		o.AudioQuality = DefaultAudioQuality
	}
	if o.TitleTemplate == "" {
		o.TitleTemplate = DefaultTitleTemplate
	}
	if o.ChapterTemplate == "" {
		o.ChapterTemplate = DefaultChapterTemplate
	}
}

const versionFlag = "--version"

// runFunc executes a prepared command; replaced in tests
type runFunc func(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error)

func runCommand(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, args...)
}

// YTDLP implements Extractor on top of go-ytdlp
type YTDLP struct {
	opts       Options
	classifier *Classifier
	logger     *zap.Logger
	run        runFunc
}

// NewYTDLP creates a yt-dlp backed extractor
func NewYTDLP(opts Options, classifier *Classifier, logger *zap.Logger) *YTDLP {
	opts.applyDefaults()
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLP{
		opts:       opts,
		classifier: classifier,
		logger:     logger,
		run:        runCommand,
	}
}

// AudioExtension returns the extension (without dot) of produced files
func (y *YTDLP) AudioExtension() string {
	return y.opts.AudioFormat
}

// command returns a base command shared by every invocation
func (y *YTDLP) command() *ytdlp.Command {
	cmd := ytdlp.New().
		NoWarnings().
		NoPlaylist()
	if y.opts.Executable != "" {
		cmd.SetExecutable(y.opts.Executable)
	}
	return cmd
}

// Probe implements Extractor
func (y *YTDLP) Probe(ctx context.Context, url string) (*model.MediaInfo, error) {
	cmd := y.command().
		SkipDownload().
		DumpSingleJSON()

	res, err := y.run(ctx, cmd, url)
	if err != nil {
		return nil, y.fail(OpProbe, url, err, stderrOf(res))
	}

	info, err := parseProbeOutput(res.Stdout)
	if err != nil {
		return nil, y.fail(OpProbe, url, err, res.Stderr)
	}

	y.logger.Debug("probe finished",
		zap.String("url", url),
		zap.String("title", info.Title),
		zap.Int("chapters", len(info.Chapters)))
	return info, nil
}

// FetchAudio implements Extractor
func (y *YTDLP) FetchAudio(ctx context.Context, url, workDir string, splitByChapter bool) error {
	if strings.TrimSpace(workDir) == "" {
		return fmt.Errorf("extractor: workDir is required")
	}

	cmd := y.command().
		Format(y.opts.Format).
		ExtractAudio().
		AudioFormat(y.opts.AudioFormat).
		AudioQuality(y.opts.AudioQuality).
		Paths(workDir).
		Output(y.opts.TitleTemplate).
		NoProgress()
	if splitByChapter {
		cmd.SplitChapters()
	}

	res, err := y.run(ctx, cmd, y.fetchArgs(url, splitByChapter)...)
	if err != nil {
		return y.fail(OpFetch, url, err, stderrOf(res))
	}

	y.logger.Debug("fetch finished",
		zap.String("url", url),
		zap.String("work_dir", workDir),
		zap.Bool("split_by_chapter", splitByChapter))
	return nil
}

// fetchArgs returns the positional arguments for a download. The chapter
// template is passed as a typed output so the full-file template stays intact.
func (y *YTDLP) fetchArgs(url string, splitByChapter bool) []string {
	if !splitByChapter {
		return []string{url}
	}
	return []string{"--output", chapterOutputType + y.opts.ChapterTemplate, url}
}

// Version returns the yt-dlp version string
func (y *YTDLP) Version(ctx context.Context) (string, error) {
	res, err := y.run(ctx, y.command(), versionFlag)
	if err != nil {
		return "", fmt.Errorf("yt-dlp not available: %w", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Install downloads a yt-dlp binary into go-ytdlp's cache when none is found
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// fail classifies a failed invocation and logs the operation it belongs to
func (y *YTDLP) fail(op, url string, err error, stderr string) *ExtractionError {
	e := y.classifier.newExtractionError(op, url, err, stderr)
	y.logger.Warn("yt-dlp failed",
		zap.String("op", op),
		zap.String("url", url),
		zap.Bool("unsupported", e.Unsupported()),
		zap.Error(e))
	return e
}

func stderrOf(res *ytdlp.Result) string {
	if res == nil {
		return ""
	}
	return res.Stderr
}

var _ Extractor = (*YTDLP)(nil)
