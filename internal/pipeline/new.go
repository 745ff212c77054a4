// Package pipeline sequences transcription, caption parsing, prompt
// building, generation and summary extraction.
package pipeline

import (
	"github.com/nguyentantai21042004/study-digest/internal/config"
	"github.com/nguyentantai21042004/study-digest/internal/generator"
	"github.com/nguyentantai21042004/study-digest/internal/logger"
	"github.com/nguyentantai21042004/study-digest/internal/prompt"
	"github.com/nguyentantai21042004/study-digest/internal/storage"
	"github.com/nguyentantai21042004/study-digest/internal/summary"
	"github.com/nguyentantai21042004/study-digest/internal/transcriber"
)

// Deps are the collaborators of a Processor. Generator, Recorder and
// Uploader may be nil: summarization then fails with ErrNoGenerator, runs go
// unrecorded and artifacts stay local.
type Deps struct {
	Transcriber transcriber.Transcriber
	Generator   generator.Generator
	Prompt      prompt.Builder
	Extractor   summary.Extractor
	Recorder    Recorder
	Uploader    storage.Uploader
}

type implProcessor struct {
	cfg  *config.Config
	deps Deps
	log  logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	if deps.Extractor == nil {
		deps.Extractor = summary.New()
	}
	return &implProcessor{
		cfg:  cfg,
		deps: deps,
		log:  log,
	}
}
