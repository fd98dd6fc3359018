package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-audio/internal/extractor"
	"github.com/ytget/yt-audio/internal/model"
)

func newProbeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <url>",
		Short: "Print the title and chapters of a source without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			classifier := extractor.NewClassifier(cfg.Extractor.UnsupportedPatterns)
			ext, err := newExtractor(cmd.Context(), cfg, classifier, zap.NewNop())
			if err != nil {
				return err
			}

			info, err := ext.Probe(cmd.Context(), args[0])
			if err != nil {
				if classifier.IsUnsupported(err) {
					return fmt.Errorf("invalid YouTube URL: %w", err)
				}
				return err
			}
			printMediaInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

// printMediaInfo writes a human readable summary of info
func printMediaInfo(w io.Writer, info *model.MediaInfo) {
	fmt.Fprintf(w, "Title:    %s\n", info.Title)
	if !info.HasChapters() {
		fmt.Fprintln(w, "Chapters: none (single file)")
		return
	}
	fmt.Fprintf(w, "Chapters: %d (zip archive)\n", len(info.Chapters))
	for _, ch := range info.Chapters {
		fmt.Fprintf(w, "  %03d  %s - %s  %s\n",
			ch.Index+1, formatOffset(ch.StartTime), formatOffset(ch.EndTime), ch.Title)
	}
}

func formatOffset(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
