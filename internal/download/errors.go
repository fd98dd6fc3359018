package download

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-audio/internal/model"
)

// ErrNoURL is returned when the request carries no URL
var ErrNoURL = errors.New("no URL provided")

// StageError records the pipeline stage an error happened in
type StageError struct {
	Stage model.Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of a pipeline error, StageFailed if unknown
func StageOf(err error) model.Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return model.StageFailed
}

func atStage(stage model.Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
