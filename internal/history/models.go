package history

import "time"

// Status is the outcome of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded invocation of the loop search pipeline. Selection
// fields are only meaningful when HasSelection is true.
type Run struct {
	ID                 string
	InputDir           string
	Extension          string
	FrameCount         int
	HasSelection       bool
	StartIndex         int
	EndIndex           int
	Similarity         float64
	Composite          float64
	DurationImportance float64
	OutputPath         string
	Format             string
	Status             Status
	ErrorMessage       string
	StartedAt          time.Time
	FinishedAt         time.Time
}

// LoopFrames returns the number of frames in the selected loop.
func (r Run) LoopFrames() int {
	if !r.HasSelection {
		return 0
	}
	return r.EndIndex - r.StartIndex
}

// Duration is the wall-clock time the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
