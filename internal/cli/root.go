package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-audio/internal/config"
)

// DefaultConfigPath is read when --config is not given and the file exists
const DefaultConfigPath = "config/config.yaml"

// rootOptions holds flags shared by every command
type rootOptions struct {
	configPath string
	version    string
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	cmd := &cobra.Command{
		Use:   "yt-audio",
		Short: "Download audio from video links as MP3",
		Long: `yt-audio is an HTTP service that turns a video link into MP3 audio.

Sources with chapters are split into one file per chapter and returned as a
zip archive; everything else comes back as a single MP3.

Example:
  yt-audio serve --addr :5005
  yt-audio probe "https://www.youtube.com/watch?v=dQw4w9WgXcQ"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./"+DefaultConfigPath+" when present)")

	cmd.AddCommand(
		newServeCommand(opts),
		newProbeCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute(version string) {
	if err := NewRootCommand(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the explicit --config file, or the default one if it exists
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}
	return config.Load(path)
}
