package summary

// Extractor converts generator output into summary documents.
type Extractor interface {
	// Extract parses raw backend text, recovering the largest brace-delimited
	// span when the whole text is not JSON. It never fails.
	Extract(raw string) Document
	// GenerationFailed builds the placeholder for a failed backend call.
	GenerationFailed(err error) Document
}
