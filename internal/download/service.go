package download

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-audio/internal/artifact"
	"github.com/ytget/yt-audio/internal/compress"
	"github.com/ytget/yt-audio/internal/extractor"
	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
)

// Pipeline defaults
const (
	DefaultMaxParallel    = 4
	DefaultExtractTimeout = 10 * time.Minute
)

// Options configures the pipeline
type Options struct {
	MaxParallel    int
	ExtractTimeout time.Duration // zero disables the timeout
}

// Service runs extraction requests
type Service struct {
	extractor extractor.Extractor
	selector  *artifact.Selector
	packager  compress.Packager
	workDirs  *platform.WorkDirFactory
	timeout   time.Duration
	slots     chan struct{}
	active    atomic.Int32
	logger    *zap.Logger
}

// NewService creates a new download service
func NewService(
	ext extractor.Extractor,
	sel *artifact.Selector,
	pkg compress.Packager,
	workDirs *platform.WorkDirFactory,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor: ext,
		selector:  sel,
		packager:  pkg,
		workDirs:  workDirs,
		timeout:   opts.ExtractTimeout,
		slots:     make(chan struct{}, opts.MaxParallel),
		logger:    logger,
	}
}

// InFlight implements Processor
func (s *Service) InFlight() int {
	return int(s.active.Load())
}

// Process implements Processor
func (s *Service) Process(ctx context.Context, requestID string, req model.ExtractionRequest) (resp *model.PackagedResponse, err error) {
	req = req.Normalized()
	log := s.logger.With(zap.String("request_id", requestID), zap.String("url", req.URL))

	stage := model.StageIdle
	defer func() {
		final := stage
		if err != nil {
			final = model.StageFailed
		}
		log.Debug("pipeline finished",
			zap.String("stage", final.String()),
			zap.Bool("terminal", final.IsTerminal()),
			zap.Error(err))
	}()

	stage = model.StageValidatingInput
	if req.URL == "" {
		return nil, atStage(stage, ErrNoURL)
	}

	if err := s.acquireSlot(ctx); err != nil {
		return nil, atStage(stage, err)
	}
	defer s.releaseSlot()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	wd, err := s.workDirs.Acquire(requestID)
	if err != nil {
		return nil, atStage(stage, err)
	}

	// Registered after the working directory so it runs after Release
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked",
				zap.String("stage", stage.String()),
				zap.Bool("work_dir_held", stage.OwnsWorkDir()),
				zap.Any("panic", r))
			resp, err = nil, atStage(stage, panicError(r))
		}
	}()
	defer wd.Release()

	stage = model.StageProbing
	info, err := s.extractor.Probe(ctx, req.URL)
	if err != nil {
		return nil, atStage(stage, err)
	}
	hasChapters := info.HasChapters()
	log.Info("probed source",
		zap.String("title", info.Title),
		zap.Int("chapters", len(info.Chapters)))

	stage = model.StageDownloading
	start := time.Now()
	if err := s.extractor.FetchAudio(ctx, req.URL, wd.Path(), hasChapters); err != nil {
		return nil, atStage(stage, err)
	}
	log.Info("audio fetched",
		zap.Bool("split_by_chapter", hasChapters),
		zap.Duration("elapsed", time.Since(start)))

	stage = model.StageSelecting
	artifacts, err := s.selector.Select(wd.Path(), hasChapters)
	if err != nil {
		return nil, atStage(stage, err)
	}

	stage = model.StagePackaging
	resp, err = s.packager.Package(artifacts, info.Title)
	if err != nil {
		return nil, atStage(stage, fmt.Errorf("packaging failed: %w", err))
	}

	stage = model.StageResponding
	log.Info("response packaged",
		zap.Int("artifacts", len(artifacts)),
		zap.String("file_name", resp.FileName),
		zap.Int("bytes", resp.Size()))
	return resp, nil
}

// acquireSlot blocks until a pipeline slot is free or ctx is done
func (s *Service) acquireSlot(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		s.active.Add(1)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for a free slot: %w", ctx.Err())
	}
}

func (s *Service) releaseSlot() {
	s.active.Add(-1)
	<-s.slots
}

var _ Processor = (*Service)(nil)
