package history

import "time"

// Run is one recorded pipeline invocation.
type Run struct {
	ID          string
	Operation   string
	Input       string
	BaseName    string
	State       string
	FailedStage string
	Error       string
	CaptionPath string
	SegmentPath string
	SummaryPath string
	SummaryKind string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Succeeded reports whether the run reached the done state.
func (r Run) Succeeded() bool {
	return r.State == "done"
}
