package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nguyentantai21042004/study-digest/internal/logger"
	"github.com/nguyentantai21042004/study-digest/internal/pipeline"
)

// Run shows the menu until the user exits or ctx is cancelled. Failed
// operations are reported and the menu is shown again.
func Run(ctx context.Context, proc pipeline.Processor, log logger.Logger, opts ...tea.ProgramOption) error {
	status := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p := tea.NewProgram(NewModel(status), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		sel := final.(Model).Selection()
		if sel.Action == ActionExit || sel.Action == ActionNone {
			return nil
		}

		out, err := Dispatch(ctx, proc, sel)
		status = Report(out, err)
		if err != nil {
			log.Error(ctx, "%s failed: %v", options[sel.Action-1].label, err)
		}
	}
}

// Dispatch runs the operation for sel and returns the path of its main
// artifact.
func Dispatch(ctx context.Context, proc pipeline.Processor, sel Selection) (string, error) {
	switch sel.Action {
	case ActionTranscribe:
		return proc.Transcribe(ctx, sel.Path)
	case ActionConvert:
		return proc.ConvertCaptions(ctx, sel.Path)
	case ActionSummarize:
		return proc.Summarize(ctx, sel.Path)
	case ActionFull:
		res, err := proc.Run(ctx, sel.Path)
		if res == nil {
			return "", err
		}
		return res.SummaryPath, err
	default:
		return "", fmt.Errorf("unknown action %d", sel.Action)
	}
}

// Report renders the outcome line shown above the next menu.
func Report(path string, err error) string {
	if err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			return errorStyle.Render(fmt.Sprintf("Failed at %s: %v", se.State, se.Err))
		}
		return errorStyle.Render("Failed: " + err.Error())
	}
	return successStyle.Render("Saved: " + path)
}

// Print writes a one-off report line to w, for non-interactive callers.
func Print(w io.Writer, path string, err error) {
	fmt.Fprintln(w, Report(path, err))
}
