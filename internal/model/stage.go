package model

// Stage represents a step of the request pipeline
type Stage string

const (
	// StageIdle means the request has not been looked at yet
	StageIdle Stage = "idle"

	// StageValidatingInput means the request body is being checked
	StageValidatingInput Stage = "validating_input"

	// StageProbing means metadata is being fetched without downloading media
	StageProbing Stage = "probing"

	// StageDownloading means audio is being fetched and transcoded
	StageDownloading Stage = "downloading"

	// StageSelecting means the working directory is being scanned for artifacts
	StageSelecting Stage = "selecting"

	// StagePackaging means artifacts are being turned into a response body
	StagePackaging Stage = "packaging"

	// StageResponding means the packaged body is being returned
	StageResponding Stage = "responding"

	// StageFailed is terminal for any error
	StageFailed Stage = "failed"
)

// String returns the string representation of Stage
func (s Stage) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is possible
func (s Stage) IsTerminal() bool {
	return s == StageResponding || s == StageFailed
}

// OwnsWorkDir returns true if a working directory may exist while in this stage
func (s Stage) OwnsWorkDir() bool {
	switch s {
	case StageProbing, StageDownloading, StageSelecting, StagePackaging:
		return true
	}
	return false
}
