package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Run-scoped failures; each stage error unwraps to one of these.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrGeneration = errors.New("generation failed")
	ErrPublish    = errors.New("publish failed")
	ErrPost       = errors.New("post failed")
)

// ErrRunInProgress is returned when a trigger arrives while another run is executing.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// ConfigError lists configuration problems detected at startup.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// StageError ties a failure to the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes both the stage sentinel and the underlying cause.
func (e *StageError) Unwrap() []error {
	if sentinel := sentinelFor(e.Stage); sentinel != nil {
		return []error{sentinel, e.Err}
	}
	return []error{e.Err}
}

// NewStageError wraps err for the given stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func sentinelFor(stage Stage) error {
	switch stage {
	case StageFetch:
		return ErrFetch
	case StageGenerate:
		return ErrGeneration
	case StagePublish:
		return ErrPublish
	case StagePost:
		return ErrPost
	default:
		return nil
	}
}
