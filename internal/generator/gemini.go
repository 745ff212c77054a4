package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generate sends prompt to Gemini. Rotates API keys on 429 / quota errors.
func (g *implGemini) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return "", &BackendError{Backend: BackendGemini, Err: err}
	}
	return text, nil
}

func (g *implGemini) generate(ctx context.Context, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if g.opts.ResponseMIMEType != "" {
		config = &genai.GenerateContentConfig{ResponseMIMEType: g.opts.ResponseMIMEType}
	}

	attempts := len(g.opts.APIKeys)
	var lastErr error

	for range attempts {
		idx, key := g.key()

		client, err := g.newClient(ctx, key)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(idx)
			continue
		}

		result, err := client.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), config)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if text := responseText(result); text != "" {
			return text, nil
		}
		return "", ErrEmptyResponse
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *implGemini) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.opts.APIKeys[g.currentKey]
}

// rotateKey advances past idx unless another caller already did.
func (g *implGemini) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.opts.APIKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
