package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/study-digest/internal/config"
	"github.com/nguyentantai21042004/study-digest/internal/logger"
)

// whisperHTTP talks to a faster-whisper sidecar exposing POST /transcribe.
type whisperHTTP struct {
	cfg    config.WhisperConfig
	client *http.Client
	logger logger.Logger
}

func (w *whisperHTTP) Name() string { return EngineWhisperHTTP }

// Transcribe uploads the media file and decodes the sidecar's segments.
func (w *whisperHTTP) Transcribe(ctx context.Context, mediaPath string) (*Result, error) {
	media, err := os.Open(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	defer media.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(mediaPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, media); err != nil {
		return nil, fmt.Errorf("write media data: %w", err)
	}

	_ = writer.WriteField("model", w.cfg.ModelSize)
	if w.cfg.Language != "" {
		_ = writer.WriteField("language", w.cfg.Language)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	url := strings.TrimSuffix(w.cfg.URL, "/") + "/transcribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w.logger.Info(ctx, "Uploading %s to whisper sidecar (model '%s')", mediaPath, w.cfg.ModelSize)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out sidecarResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	res := &Result{
		Language:            out.Language,
		LanguageProbability: out.LanguageProbability,
		Segments:            make([]Segment, 0, len(out.Segments)),
	}
	for _, s := range out.Segments {
		res.Segments = append(res.Segments, Segment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)})
	}
	return res, nil
}

type sidecarResponse struct {
	Text                string    `json:"text"`
	Segments            []Segment `json:"segments"`
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability"`
}
