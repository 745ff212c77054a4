// Package generator adapts generative text backends for summarization.
package generator

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/study-digest/internal/logger"
	"google.golang.org/genai"
)

// BackendGemini is the name reported in Gemini backend errors.
const BackendGemini = "gemini"

// GeminiOptions configures the Gemini backend.
type GeminiOptions struct {
	APIKeys          []string
	Model            string
	ResponseMIMEType string
}

// contentClient is the slice of the genai client used here.
type contentClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type clientFactory func(ctx context.Context, apiKey string) (contentClient, error)

type implGemini struct {
	opts      GeminiOptions
	logger    logger.Logger
	newClient clientFactory

	mu         sync.Mutex
	currentKey int
}

// NewGemini creates a Generator that rotates through the supplied Gemini API
// keys when a key is rate limited.
func NewGemini(opts GeminiOptions, log logger.Logger) (Generator, error) {
	return newGemini(opts, log, genaiClient)
}

func newGemini(opts GeminiOptions, log logger.Logger, factory clientFactory) (*implGemini, error) {
	if len(opts.APIKeys) == 0 {
		return nil, fmt.Errorf("gemini: at least one API key is required")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	return &implGemini{
		opts:      opts,
		logger:    log,
		newClient: factory,
	}, nil
}

func genaiClient(ctx context.Context, apiKey string) (contentClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}
