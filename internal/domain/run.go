package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunState enumerates pipeline milestones.
type RunState string

const (
	StateIdle         RunState = "idle"
	StateFetching     RunState = "fetching"
	StateGenerating   RunState = "generating"
	StateIllustrating RunState = "illustrating"
	StatePublishing   RunState = "publishing"
	StatePosting      RunState = "posting"
	StateDone         RunState = "done"
	StateAborted      RunState = "aborted"
)

// Terminal reports whether no further transition is possible.
func (s RunState) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// Stage names one step of the pipeline.
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageGenerate   Stage = "generate"
	StageIllustrate Stage = "illustrate"
	StagePublish    Stage = "publish"
	StagePost       Stage = "post"
)

// Trigger records what started a run.
type Trigger string

const (
	TriggerImmediate Trigger = "immediate"
	TriggerScheduled Trigger = "scheduled"
)

// RunReport summarizes a finished run. It is logged and returned, never stored.
type RunReport struct {
	ID           uuid.UUID
	Trigger      Trigger
	State        RunState
	FailedStage  Stage
	Err          error
	PostErr      error
	Facts        int
	ArticleURL   string
	Illustrated  bool
	SocialPosted bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Succeeded is true when the run reached Done.
func (r RunReport) Succeeded() bool {
	return r.State == StateDone
}

// Duration of the run.
func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
