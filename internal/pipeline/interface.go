package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/study-digest/internal/history"
	"github.com/nguyentantai21042004/study-digest/internal/summary"
)

// Processor runs the transcript-to-summary pipeline, whole or one stage at a time.
type Processor interface {
	// Transcribe writes {B}.vtt for a media file and returns its path.
	Transcribe(ctx context.Context, mediaPath string) (string, error)
	// ConvertCaptions writes {B}.json for a caption file and returns its path.
	ConvertCaptions(ctx context.Context, captionPath string) (string, error)
	// Summarize writes summary_{B}.json for a transcript JSON file and returns its path.
	Summarize(ctx context.Context, segmentPath string) (string, error)
	// Run executes every stage for a media file.
	Run(ctx context.Context, mediaPath string) (*Result, error)
	// Archive moves a processed input into the archive folder.
	Archive(ctx context.Context, path string) error
}

// Recorder stores run history. history.Store implements it.
type Recorder interface {
	Start(ctx context.Context, r *history.Run) error
	Finish(ctx context.Context, r *history.Run) error
}

// Result lists the artifacts of a run.
type Result struct {
	RunID       string
	BaseName    string
	CaptionPath string
	SegmentPath string
	SummaryPath string
	DocxPath    string
	SummaryKind summary.Kind
	Segments    int
	Language    string
	// Published lists object keys uploaded after a successful run.
	Published []string
}
