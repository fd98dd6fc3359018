package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title", "Live at Wembley", "Live at Wembley"},
		{"reserved characters", `AC/DC: Back <in> "Black"?*|\`, "ACDC Back in Black"},
		{"control characters", "Track\x00One\t", "TrackOne"},
		{"only reserved", `<>:"/\|?*`, DefaultTitle},
		{"empty", "", DefaultTitle},
		{"unicode kept", "Мелодия — 1", "Мелодия — 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsPartialDownload(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"song.mp3", false},
		{"song.mp3.part", true},
		{"song.webm.ytdl", true},
		{"song.TEMP", true},
		{"partial.mp3", false},
	}

	for _, test := range tests {
		if got := IsPartialDownload(test.filename); got != test.expected {
			t.Errorf("IsPartialDownload(%s) = %v, expected %v", test.filename, got, test.expected)
		}
	}
}
