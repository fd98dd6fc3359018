package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-audio/internal/config"
	"github.com/ytget/yt-audio/internal/extractor"
	"github.com/ytget/yt-audio/internal/server"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			return runServe(cmd, root, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, cfg *config.Config) error {
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting yt-audio",
		zap.String("version", root.version),
		zap.String("addr", cfg.Server.Address))

	classifier := extractor.NewClassifier(cfg.Extractor.UnsupportedPatterns)
	ext, err := newExtractor(ctx, cfg, classifier, logger)
	if err != nil {
		return err
	}
	if v, err := ext.Version(ctx); err != nil {
		logger.Warn("yt-dlp version check failed", zap.Error(err))
	} else {
		logger.Info("yt-dlp found", zap.String("version", v))
	}

	pipeline, err := newPipeline(cfg, ext, logger)
	if err != nil {
		return err
	}

	srv := server.New(pipeline, classifier, server.Options{
		IndexFile:         cfg.Frontend.IndexFile,
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Burst:             cfg.Limits.Burst,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}, logger)
	return srv.Run(ctx, cfg.Server.Address)
}
