// Package compress packages extraction artifacts into a single downloadable
// payload: the raw file for one artifact, an in-memory zip for several.
package compress

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ytget/yt-audio/internal/artifact"
	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
)

// Content types
const (
	ContentTypeAudio = "audio/mpeg"
	ContentTypeZip   = "application/zip"
)

// Archive settings
const (
	ArchiveExtension = ".zip"
	ArchiveMethod    = zip.Deflate
)

// archiveModTime is stamped on every entry so identical inputs give identical bytes
var archiveModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Service packages artifacts
type Service struct {
	audioContentType string
}

// NewService creates a new packaging service
func NewService() *Service {
	return &Service{audioContentType: ContentTypeAudio}
}

// NewServiceWithContentType creates a service whose single-file responses use
// contentType, for audio formats other than MP3.
func NewServiceWithContentType(contentType string) *Service {
	if contentType == "" {
		contentType = ContentTypeAudio
	}
	return &Service{audioContentType: contentType}
}

// Package implements Packager
func (s *Service) Package(artifacts []model.OutputArtifact, title string) (*model.PackagedResponse, error) {
	switch len(artifacts) {
	case 0:
		return nil, artifact.ErrNoArtifacts
	case 1:
		return s.packageSingle(artifacts[0])
	default:
		return s.packageArchive(artifacts, title)
	}
}

// packageSingle returns the file as is, keeping its on-disk name
func (s *Service) packageSingle(a model.OutputArtifact) (*model.PackagedResponse, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.Name, err)
	}
	return &model.PackagedResponse{
		Body:        data,
		FileName:    a.Name,
		ContentType: s.audioContentType,
	}, nil
}

// packageArchive builds a zip with one entry per artifact, ordered by name
func (s *Service) packageArchive(artifacts []model.OutputArtifact, title string) (*model.PackagedResponse, error) {
	sorted := make([]model.OutputArtifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, a := range sorted {
		if err := addEntry(zw, a); err != nil {
			zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return &model.PackagedResponse{
		Body:        buf.Bytes(),
		FileName:    ArchiveName(title),
		ContentType: ContentTypeZip,
	}, nil
}

func addEntry(zw *zip.Writer, a model.OutputArtifact) error {
	f, err := os.Open(a.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.Name, err)
	}
	defer f.Close()

	header := &zip.FileHeader{
		Name:     a.Name,
		Method:   ArchiveMethod,
		Modified: archiveModTime,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", a.Name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", a.Name, err)
	}
	return nil
}

// ArchiveName returns the download name of a multi-file response
func ArchiveName(title string) string {
	return platform.SanitizeFilename(title) + ArchiveExtension
}

var _ Packager = (*Service)(nil)
