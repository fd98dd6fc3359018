package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ytget/yt-audio/internal/config"
	"github.com/ytget/yt-audio/internal/extractor"
	"github.com/ytget/yt-audio/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.TrimSpace(out) != "yt-audio 1.2.3" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Expected written config to load, got %v", err)
	}
	if loaded.Server.Address != config.DefaultAddress {
		t.Errorf("Expected address %q, got %q", config.DefaultAddress, loaded.Server.Address)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("Expected error when file exists without --force")
	}
	if _, err := execute(t, "config", "init", "--force", path); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "segment_pattern:") {
		t.Errorf("Expected YAML output, got %q", out)
	}
}

func TestServe_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "serve")
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestProbe_RequiresURL(t *testing.T) {
	if _, err := execute(t, "probe"); err == nil {
		t.Error("Expected error without a URL argument")
	}
}

func TestPrintMediaInfo(t *testing.T) {
	tests := []struct {
		name string
		info *model.MediaInfo
		want []string
	}{
		{
			name: "no chapters",
			info: &model.MediaInfo{Title: "Song"},
			want: []string{"Title:    Song", "Chapters: none"},
		},
		{
			name: "chapters",
			info: &model.MediaInfo{
				Title: "Album",
				Chapters: []model.ChapterInfo{
					{Index: 0, Title: "Intro", StartTime: 0, EndTime: 83},
					{Index: 1, Title: "Long", StartTime: 83, EndTime: 3725},
				},
			},
			want: []string{
				"Chapters: 2 (zip archive)",
				"  001  00:00 - 01:23  Intro",
				"  002  01:23 - 1:02:05  Long",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printMediaInfo(&buf, tt.info)
			for _, line := range tt.want {
				if !strings.Contains(buf.String(), line) {
					t.Errorf("Expected output to contain %q, got:\n%s", line, buf.String())
				}
			}
		})
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := (&rootOptions{}).loadConfig()
	if err != nil {
		t.Fatalf("Expected defaults, got %v", err)
	}
	if cfg.Limits.MaxParallel != config.DefaultMaxParallel {
		t.Errorf("Expected max parallel %d, got %d", config.DefaultMaxParallel, cfg.Limits.MaxParallel)
	}
}

func TestNewPipeline_UsesConfiguredFormat(t *testing.T) {
	cfg := config.Default()
	cfg.WorkDir.BaseDir = t.TempDir()
	ext := newTestExtractor(cfg)

	pipeline, err := newPipeline(cfg, ext, zap.NewNop())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if pipeline.InFlight() != 0 {
		t.Errorf("Expected idle pipeline, got %d in flight", pipeline.InFlight())
	}

	cfg.Selector.SegmentPattern = "("
	if _, err := newPipeline(cfg, ext, zap.NewNop()); err == nil {
		t.Error("Expected error for invalid segment pattern")
	}
}

func newTestExtractor(cfg *config.Config) *extractor.YTDLP {
	ext, err := newExtractor(context.Background(), cfg, extractor.NewClassifier(nil), zap.NewNop())
	if err != nil {
		panic(err)
	}
	return ext
}
