package summary

import "time"

type implExtractor struct {
	now func() time.Time
}

// New creates an Extractor stamping documents with the local wall clock.
func New() Extractor {
	return NewWithClock(time.Now)
}

// NewWithClock creates an Extractor with a custom clock.
func NewWithClock(now func() time.Time) Extractor {
	return &implExtractor{now: now}
}
