package extractor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifier_MatchText(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		text     string
		expected bool
	}{
		{"unsupported url", nil, "ERROR: [generic] Unsupported URL: https://example.com", true},
		{"not a valid url", nil, "ERROR: 'abc' is not a valid URL", true},
		{"network failure", nil, "ERROR: unable to download webpage: timed out", false},
		{"custom pattern", []string{"No video formats"}, "ERROR: No video formats found", true},
		{"custom replaces default", []string{"No video formats"}, "Unsupported URL", false},
		{"blank patterns fall back to nothing", []string{"  "}, "Unsupported URL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(tt.patterns)
			if got := c.MatchText(tt.text); got != tt.expected {
				t.Errorf("MatchText(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifier_IsUnsupported(t *testing.T) {
	c := NewClassifier(nil)

	if c.IsUnsupported(nil) {
		t.Error("nil error should not be unsupported")
	}

	classified := c.newExtractionError(OpProbe, "https://example.com", errors.New("exit status 1"),
		"WARNING: falling back\nERROR: [generic] Unsupported URL: https://example.com\n")
	if !classified.Unsupported() {
		t.Fatal("Expected stderr match to classify error as unsupported")
	}
	if !errors.Is(classified, ErrUnsupportedSource) {
		t.Error("Expected errors.Is to match ErrUnsupportedSource")
	}

	wrapped := fmt.Errorf("probing: %w", classified)
	if !c.IsUnsupported(wrapped) {
		t.Error("Expected wrapped classified error to be unsupported")
	}

	plain := errors.New("something is not a valid URL")
	if !c.IsUnsupported(plain) {
		t.Error("Expected text heuristic to match a plain error")
	}

	other := c.newExtractionError(OpFetch, "https://youtube.com/watch?v=x", errors.New("exit status 1"),
		"ERROR: Postprocessing: ffprobe and ffmpeg not found")
	if other.Unsupported() || errors.Is(other, ErrUnsupportedSource) {
		t.Error("Transcoding failure must not be classified as unsupported")
	}
}

func TestExtractionError_Error(t *testing.T) {
	cause := errors.New("exit status 1")

	withOutput := &ExtractionError{
		Op:     OpFetch,
		Err:    cause,
		Output: "[youtube] abc: Downloading webpage\nERROR: first\nERROR: unable to download video data: HTTP Error 403",
	}
	if got := withOutput.Error(); got != "ERROR: unable to download video data: HTTP Error 403" {
		t.Errorf("Unexpected message: %s", got)
	}

	withoutOutput := &ExtractionError{Op: OpProbe, Err: cause}
	if got := withoutOutput.Error(); got != "exit status 1" {
		t.Errorf("Unexpected message: %s", got)
	}

	bare := &ExtractionError{Op: OpProbe}
	if got := bare.Error(); got != "probe failed" {
		t.Errorf("Unexpected message: %s", got)
	}

	if !errors.Is(withOutput, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}
	if strings.Contains(withoutOutput.Error(), "ERROR:") {
		t.Error("Message without output should not contain an ERROR line")
	}
}
