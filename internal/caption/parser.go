// Package caption reads and writes WebVTT-style caption tracks.
package caption

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/study-digest/internal/segment"
)

// space is Unicode whitespace: RE2's \s alone misses \v, NEL, NBSP and the
// other separators an editor may leave on an otherwise blank line.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// blockSep matches any whitespace run holding at least two newlines.
	blockSep = regexp.MustCompile(`\n` + space + `*\n`)

	// timeRange matches "HH:MM:SS.mmm --> HH:MM:SS.mmm" at the start of a line.
	// Cue settings after the end timestamp are ignored.
	timeRange = regexp.MustCompile(`^(\d{2,}:\d{2}:\d{2}\.\d{3})` + space + `-->` + space + `(\d{2,}:\d{2}:\d{2}\.\d{3})`)
)

// Parse converts a caption track into a segment document.
//
// Blocks with fewer than three lines or without a valid time range on the
// second line are dropped. A segment keeps the index of its block in the
// raw split as its id, so dropped blocks leave gaps. Parse never fails;
// malformed input yields fewer or zero segments.
func Parse(text string) segment.Document {
	doc := segment.Document{AudioSegments: make([]segment.TimedSegment, 0)}

	text = strings.TrimSpace(text)
	if text == "" {
		return doc
	}

	for i, block := range blockSep.Split(text, -1) {
		lines := splitLines(block)
		if len(lines) < 3 {
			continue
		}

		m := timeRange.FindStringSubmatch(lines[1])
		if m == nil {
			continue
		}

		transcript := strings.Join(lines[2:], " ")
		transcript = strings.ReplaceAll(transcript, "\n", " ")

		doc.AudioSegments = append(doc.AudioSegments, segment.TimedSegment{
			ID:         i,
			Transcript: strings.TrimSpace(transcript),
			StartTime:  m[1],
			EndTime:    m[2],
		})
	}

	return doc
}

// ParseFile reads and parses the caption track at path.
func ParseFile(path string) (segment.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return segment.Document{}, fmt.Errorf("read caption file: %w", err)
	}
	return Parse(string(data)), nil
}

// splitLines splits on line breaks, dropping carriage returns and a single
// trailing newline.
func splitLines(block string) []string {
	block = strings.TrimSuffix(block, "\n")
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
