// Package artifact decides which files in a working directory make up the
// output of an extraction.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
)

// DefaultSegmentPattern matches the chapter index embedded by the chapter
// output template, e.g. "Album - 007 - Outro.mp3".
const DefaultSegmentPattern = ` - \d{3} - `

// ErrNoArtifacts is returned when extraction produced no usable file
var ErrNoArtifacts = errors.New("no audio artifacts produced")

// Selector picks the output set from a working directory
type Selector struct {
	extension string
	segment   *regexp.Regexp
}

// NewSelector creates a selector for files with the given extension (with or
// without the leading dot). An empty pattern means DefaultSegmentPattern.
func NewSelector(extension, segmentPattern string) (*Selector, error) {
	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	if extension == "" {
		return nil, fmt.Errorf("artifact extension is required")
	}
	if segmentPattern == "" {
		segmentPattern = DefaultSegmentPattern
	}
	re, err := regexp.Compile(segmentPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid segment pattern %q: %w", segmentPattern, err)
	}
	return &Selector{extension: "." + extension, segment: re}, nil
}

// Extension returns the artifact extension including the dot
func (s *Selector) Extension() string {
	return s.extension
}

// IsSegment reports whether a file name looks like a chapter segment
func (s *Selector) IsSegment(name string) bool {
	return s.segment.MatchString(name)
}

// Collect lists candidate files in dir sorted by name
func (s *Selector) Collect(dir string) ([]model.OutputArtifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []model.OutputArtifact
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if platform.IsPartialDownload(name) {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), s.extension) {
			continue
		}
		candidates = append(candidates, model.NewOutputArtifact(filepath.Join(dir, name)))
	}

	sortByName(candidates)
	return candidates, nil
}

// Select returns the final output set. With chapters and several candidates,
// only segment files are kept; if none of them look like segments the full
// candidate set is returned instead of nothing.
func (s *Selector) Select(dir string, hasChapters bool) ([]model.OutputArtifact, error) {
	candidates, err := s.Collect(dir)
	if err != nil {
		return nil, err
	}

	selected := s.Filter(candidates, hasChapters)
	if len(selected) == 0 {
		return nil, ErrNoArtifacts
	}
	return selected, nil
}

// Filter applies the chapter disambiguation rules to an already collected set
func (s *Selector) Filter(candidates []model.OutputArtifact, hasChapters bool) []model.OutputArtifact {
	if !hasChapters || len(candidates) <= 1 {
		return candidates
	}

	var segments []model.OutputArtifact
	for _, c := range candidates {
		if s.IsSegment(c.Name) {
			segments = append(segments, c)
		}
	}
	if len(segments) == 0 {
		return candidates
	}
	return segments
}

func sortByName(artifacts []model.OutputArtifact) {
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})
}
