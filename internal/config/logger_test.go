package config

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"default level", LogConfig{}, false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug development", LogConfig{Level: "debug", Development: true}, false, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", LogConfig{Level: "warn"}, false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"invalid", LogConfig{Level: "loud"}, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			defer logger.Sync()

			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("Expected %s to be enabled", tt.enabled)
			}
			if logger.Core().Enabled(tt.muted) {
				t.Errorf("Expected %s to be disabled", tt.muted)
			}
		})
	}
}
