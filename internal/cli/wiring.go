package cli

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-audio/internal/artifact"
	"github.com/ytget/yt-audio/internal/compress"
	"github.com/ytget/yt-audio/internal/config"
	"github.com/ytget/yt-audio/internal/download"
	"github.com/ytget/yt-audio/internal/extractor"
	"github.com/ytget/yt-audio/internal/platform"
)

// newExtractor builds the yt-dlp adapter, installing yt-dlp first if asked to
func newExtractor(ctx context.Context, cfg *config.Config, classifier *extractor.Classifier, logger *zap.Logger) (*extractor.YTDLP, error) {
	if cfg.Extractor.AutoInstall && cfg.Extractor.Executable == "" {
		logger.Info("ensuring yt-dlp is installed")
		if err := extractor.Install(ctx); err != nil {
			return nil, err
		}
	}

	return extractor.NewYTDLP(extractor.Options{
		Executable:      cfg.Extractor.Executable,
		Format:          cfg.Extractor.Format,
		AudioFormat:     cfg.Extractor.AudioFormat,
		AudioQuality:    cfg.Extractor.AudioQuality,
		TitleTemplate:   cfg.Extractor.TitleTemplate,
		ChapterTemplate: cfg.Extractor.ChapterTemplate,
	}, classifier, logger), nil
}

// newPipeline wires the extraction pipeline from configuration
func newPipeline(cfg *config.Config, ext *extractor.YTDLP, logger *zap.Logger) (*download.Service, error) {
	sel, err := artifact.NewSelector(ext.AudioExtension(), cfg.Selector.SegmentPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact selector: %w", err)
	}

	workDirs := platform.NewWorkDirFactory(cfg.WorkDir.BaseDir, cfg.WorkDir.Prefix, logger)

	return download.NewService(ext, sel, newPackager(sel.Extension()), workDirs, download.Options{
		MaxParallel:    cfg.Limits.MaxParallel,
		ExtractTimeout: cfg.Extractor.Timeout,
	}, logger), nil
}

// newPackager picks the single-file content type for the configured audio format
func newPackager(extension string) *compress.Service {
	if strings.EqualFold(extension, ".mp3") {
		return compress.NewService()
	}
	return compress.NewServiceWithContentType(mime.TypeByExtension(extension))
}
