package download

import (
	"context"

	"github.com/ytget/yt-audio/internal/model"
)

// Processor defines the interface for the download pipeline.
type Processor interface {
	// Process runs one request end to end. The working directory is gone by
	// the time it returns.
	Process(ctx context.Context, requestID string, req model.ExtractionRequest) (*model.PackagedResponse, error)

	// InFlight returns the number of pipelines currently holding a slot
	InFlight() int
}
