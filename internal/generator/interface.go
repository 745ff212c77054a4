package generator

import "context"

// Generator is an opaque text-generation backend.
type Generator interface {
	// Generate returns the backend's free-form text for prompt. Any failure
	// is reported as a *BackendError.
	Generate(ctx context.Context, prompt string) (string, error)
}
