package transcriber

import "context"

// Transcriber turns a media file into timed text segments.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, mediaPath string) (*Result, error)
}

// Segment is a time-aligned piece of transcript. Start and End are seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the outcome of a transcription call.
type Result struct {
	Segments            []Segment
	Language            string
	LanguageProbability float64
}
