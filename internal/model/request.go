package model

import (
	"path/filepath"
	"strings"
)

// ExtractionRequest is the decoded body of a download request
type ExtractionRequest struct {
	URL string `json:"url"`
}

// Normalized returns a copy with surrounding whitespace removed from the URL
func (r ExtractionRequest) Normalized() ExtractionRequest {
	return ExtractionRequest{URL: strings.TrimSpace(r.URL)}
}

// ChapterInfo is a single chapter reported by the extractor
type ChapterInfo struct {
	Index     int     `json:"index"`
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// MediaInfo is the metadata returned by a probe
type MediaInfo struct {
	Title    string        `json:"title"`
	Chapters []ChapterInfo `json:"chapters,omitempty"`
}

// HasChapters reports whether the source declares chapter boundaries
func (m *MediaInfo) HasChapters() bool {
	return m != nil && len(m.Chapters) > 0
}

// OutputArtifact is a file produced by the extractor inside a working directory
type OutputArtifact struct {
	Path string // absolute path on disk
	Name string // bare file name
}

// NewOutputArtifact builds an artifact from a path
func NewOutputArtifact(path string) OutputArtifact {
	return OutputArtifact{Path: path, Name: filepath.Base(path)}
}

// PackagedResponse is the downloadable payload for a single request
type PackagedResponse struct {
	Body        []byte
	FileName    string
	ContentType string
}

// Size returns the payload length in bytes
func (p *PackagedResponse) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Body)
}
