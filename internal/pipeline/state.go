package pipeline

import (
	"errors"
	"fmt"
)

// State is a step of a pipeline run.
type State int

const (
	Idle State = iota
	Transcribing
	ParsingCaptions
	BuildingPrompt
	AwaitingGeneration
	ExtractingSummary
	Persisting
	Done
	Failed
)

var stateNames = map[State]string{
	Idle:               "idle",
	Transcribing:       "transcribing",
	ParsingCaptions:    "parsing_captions",
	BuildingPrompt:     "building_prompt",
	AwaitingGeneration: "awaiting_generation",
	ExtractingSummary:  "extracting_summary",
	Persisting:         "persisting",
	Done:               "done",
	Failed:             "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrMissingInput means an input file did not exist; the stage was not entered.
var ErrMissingInput = errors.New("input file not found")

// ErrNoGenerator means summarization was requested without a configured backend.
var ErrNoGenerator = errors.New("generation backend not configured")

// StageError reports the state a run failed in.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedState returns the state carried by a *StageError in err's chain.
func FailedState(err error) (State, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.State, true
	}
	return Failed, false
}
