// Package segment holds the timed transcript model shared by the caption
// parser, the prompt builder and the persisted transcript JSON.
package segment

// TimedSegment is one timed unit of transcript text.
// ID is the position of the source block in the caption track, so ids may
// have gaps where malformed blocks were dropped.
type TimedSegment struct {
	ID         int    `json:"id"`
	Transcript string `json:"transcript"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// Document is the ordered segment sequence of one caption track.
type Document struct {
	AudioSegments []TimedSegment `json:"audio_segments"`
}

// Len returns the number of segments.
func (d Document) Len() int {
	return len(d.AudioSegments)
}
