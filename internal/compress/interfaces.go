package compress

import (
	"github.com/ytget/yt-audio/internal/model"
)

// Packager defines the interface for turning artifacts into a response body.
type Packager interface {
	Package(artifacts []model.OutputArtifact, title string) (*model.PackagedResponse, error)
}
