package prompt

import "github.com/nguyentantai21042004/study-digest/internal/segment"

// Builder renders a generation request for a transcript.
type Builder interface {
	Build(doc segment.Document) (string, error)
	// Template returns the active instruction template verbatim.
	Template() string
}
