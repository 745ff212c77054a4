package caption

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Header is the first line of every caption track this package writes.
const Header = "WEBVTT"

// Cue is one timed caption produced by a transcription engine.
// Start and End are offsets in seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm. Hours are not capped
// at 99 and negative offsets clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))

	millis := total % 1000
	secs := (total / 1000) % 60
	minutes := (total / 60000) % 60
	hours := total / 3600000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

// Write renders cues as a caption track numbered from 1.
func Write(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n\n", Header); err != nil {
		return err
	}
	for i, c := range cues {
		_, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1, FormatTimestamp(c.Start), FormatTimestamp(c.End), strings.TrimSpace(c.Text))
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile writes cues to path, replacing any existing file.
func WriteFile(path string, cues []Cue) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create caption file: %w", err)
	}
	defer f.Close()

	if err := Write(f, cues); err != nil {
		return fmt.Errorf("write caption file: %w", err)
	}
	return f.Sync()
}
