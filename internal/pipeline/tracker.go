package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/study-digest/internal/history"
	"github.com/nguyentantai21042004/study-digest/internal/logger"
)

// tracker follows one invocation through its states and mirrors it into
// the run ledger. Ledger failures are logged, never returned.
type tracker struct {
	p     *implProcessor
	run   *history.Run
	state State

	language string
	docxPath string
}

func (p *implProcessor) begin(ctx context.Context, operation, input string) (context.Context, *tracker) {
	t := &tracker{
		p: p,
		run: &history.Run{
			ID:        uuid.NewString(),
			Operation: operation,
			Input:     input,
			BaseName:  baseName(input),
			State:     Idle.String(),
			StartedAt: time.Now(),
		},
		state: Idle,
	}
	ctx = logger.WithRun(ctx, t.run.ID)

	if p.deps.Recorder != nil {
		if err := p.deps.Recorder.Start(ctx, t.run); err != nil {
			p.log.Warn(ctx, "Failed to record run start: %v", err)
		}
	}
	return ctx, t
}

func (t *tracker) enter(ctx context.Context, s State) {
	if t.state == s {
		return
	}
	t.p.log.Debug(ctx, "State %s -> %s", t.state, s)
	t.state = s
}

// fail closes the run as failed. Errors that are not already a *StageError
// are attributed to the current state.
func (t *tracker) fail(ctx context.Context, err error) error {
	var se *StageError
	if !errors.As(err, &se) {
		se = &StageError{State: t.state, Err: err}
		err = se
	}

	t.state = Failed
	t.run.State = Failed.String()
	t.run.FailedStage = se.State.String()
	t.run.Error = se.Err.Error()
	t.finish(ctx)

	t.p.log.Error(ctx, "Failed while %s: %v", se.State, se.Err)
	return err
}

func (t *tracker) done(ctx context.Context) {
	t.state = Done
	t.run.State = Done.String()
	t.finish(ctx)
}

func (t *tracker) finish(ctx context.Context) {
	if t.p.deps.Recorder == nil {
		return
	}
	if err := t.p.deps.Recorder.Finish(ctx, t.run); err != nil {
		t.p.log.Warn(ctx, "Failed to record run result: %v", err)
	}
}
