// Package prompt turns a transcript document into a summarization request.
package prompt

import (
	"github.com/nguyentantai21042004/study-digest/internal/segment"
)

// Build appends the compact transcript JSON to the template, separated by a
// single newline. The template is used verbatim.
func (b *implBuilder) Build(doc segment.Document) (string, error) {
	payload, err := segment.MarshalCompact(doc)
	if err != nil {
		return "", err
	}
	return b.template + "\n" + string(payload), nil
}

func (b *implBuilder) Template() string {
	return b.template
}
