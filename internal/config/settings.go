// Package config loads service settings from a YAML file, an optional .env
// file and YTAUDIO_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-audio/internal/artifact"
	"github.com/ytget/yt-audio/internal/download"
	"github.com/ytget/yt-audio/internal/extractor"
	"github.com/ytget/yt-audio/internal/platform"
)

// Default values
const (
	DefaultAddress         = ":5005"
	DefaultShutdownTimeout = 15 * time.Second
	DefaultReadTimeout     = 30 * time.Second
	DefaultFormat          = extractor.DefaultFormat
	DefaultAudioFormat     = extractor.DefaultAudioFormat
	DefaultAudioQuality    = extractor.DefaultAudioQuality
	DefaultTitleTemplate   = extractor.DefaultTitleTemplate
	DefaultChapterTemplate = extractor.DefaultChapterTemplate
	DefaultExtractTimeout  = download.DefaultExtractTimeout
	DefaultSegmentPattern  = artifact.DefaultSegmentPattern
	DefaultWorkDirPrefix   = platform.DefaultWorkDirPrefix
	DefaultMaxParallel     = download.DefaultMaxParallel
	DefaultRequestsPerSec  = 5.0
	DefaultBurst           = 10
	DefaultLogLevel        = "info"
	DefaultIndexFile       = "./youtube-audio-downloader.html"
)

// Environment variable names
const (
	EnvFile           = "YTAUDIO_ENV_FILE"
	EnvAddress        = "YTAUDIO_ADDR"
	EnvLogLevel       = "YTAUDIO_LOG_LEVEL"
	EnvYTDLPPath      = "YTAUDIO_YTDLP_PATH"
	EnvWorkDir        = "YTAUDIO_WORKDIR"
	EnvMaxParallel    = "YTAUDIO_MAX_PARALLEL"
	EnvExtractTimeout = "YTAUDIO_EXTRACT_TIMEOUT"
	EnvIndexFile      = "YTAUDIO_INDEX_FILE"
)

// Config represents the complete service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Selector  SelectorConfig  `yaml:"selector"`
	WorkDir   WorkDirConfig   `yaml:"workdir"`
	Limits    LimitsConfig    `yaml:"limits"`
	Frontend  FrontendConfig  `yaml:"frontend"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ExtractorConfig contains yt-dlp settings
type ExtractorConfig struct {
	Executable          string        `yaml:"executable"`
	AutoInstall         bool          `yaml:"auto_install"`
	Format              string        `yaml:"format"`
	AudioFormat         string        `yaml:"audio_format"`
	AudioQuality        string        `yaml:"audio_quality"`
	TitleTemplate       string        `yaml:"title_template"`
	ChapterTemplate     string        `yaml:"chapter_template"`
	Timeout             time.Duration `yaml:"timeout"`
	UnsupportedPatterns []string      `yaml:"unsupported_patterns"`
}

// SelectorConfig contains artifact selection settings
type SelectorConfig struct {
	SegmentPattern string `yaml:"segment_pattern"`
}

// WorkDirConfig contains working directory settings
type WorkDirConfig struct {
	BaseDir string `yaml:"base_dir"`
	Prefix  string `yaml:"prefix"`
}

// LimitsConfig contains concurrency and rate limits
type LimitsConfig struct {
	MaxParallel       int     `yaml:"max_parallel"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// FrontendConfig points at the static page served on GET /
type FrontendConfig struct {
	IndexFile string `yaml:"index_file"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns a configuration with every field set to its default
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         DefaultAddress,
			ReadTimeout:     DefaultReadTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Extractor: ExtractorConfig{
			Format:              DefaultFormat,
			AudioFormat:         DefaultAudioFormat,
			AudioQuality:        DefaultAudioQuality,
			TitleTemplate:       DefaultTitleTemplate,
			ChapterTemplate:     DefaultChapterTemplate,
			Timeout:             DefaultExtractTimeout,
			UnsupportedPatterns: append([]string(nil), extractor.DefaultUnsupportedPatterns...),
		},
		Selector: SelectorConfig{SegmentPattern: DefaultSegmentPattern},
		WorkDir:  WorkDirConfig{Prefix: DefaultWorkDirPrefix},
		Limits: LimitsConfig{
			MaxParallel:       DefaultMaxParallel,
			RequestsPerSecond: DefaultRequestsPerSec,
			Burst:             DefaultBurst,
		},
		Frontend: FrontendConfig{IndexFile: DefaultIndexFile},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

// Load builds the configuration. A missing file at path is not an error when
// path is empty; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := loadEnvFile(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile loads YTAUDIO_ENV_FILE, or ./.env when present. Variables that
// are already set are not overridden.
func loadEnvFile() error {
	if p := strings.TrimSpace(os.Getenv(EnvFile)); p != "" {
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddress); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvYTDLPPath); v != "" {
		c.Extractor.Executable = v
	}
	if v := os.Getenv(EnvWorkDir); v != "" {
		c.WorkDir.BaseDir = v
	}
	if v := os.Getenv(EnvIndexFile); v != "" {
		c.Frontend.IndexFile = v
	}
	if v := os.Getenv(EnvMaxParallel); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxParallel, err)
		}
		c.Limits.MaxParallel = n
	}
	if v := os.Getenv(EnvExtractTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvExtractTimeout, err)
		}
		c.Extractor.Timeout = d
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Limits.MaxParallel <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_parallel must be positive, got %d", c.Limits.MaxParallel))
	}
	if c.Limits.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("limits.requests_per_second must be positive, got %v", c.Limits.RequestsPerSecond))
	}
	if c.Limits.Burst <= 0 {
		errs = append(errs, fmt.Errorf("limits.burst must be positive, got %d", c.Limits.Burst))
	}
	if c.Extractor.Timeout < 0 {
		errs = append(errs, fmt.Errorf("extractor.timeout must not be negative, got %s", c.Extractor.Timeout))
	}
	if strings.TrimSpace(c.Extractor.AudioFormat) == "" {
		errs = append(errs, errors.New("extractor.audio_format is required"))
	}
	if _, err := regexp.Compile(c.Selector.SegmentPattern); err != nil {
		errs = append(errs, fmt.Errorf("selector.segment_pattern is invalid: %w", err))
	}
	return errors.Join(errs...)
}

// Marshal renders the configuration as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
