package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/study-digest/internal/config"
	"github.com/nguyentantai21042004/study-digest/internal/logger"
	"github.com/nguyentantai21042004/study-digest/pkg/executor"
)

type whisperCLI struct {
	whisper  config.WhisperConfig
	ffmpeg   string
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

func (w *whisperCLI) Name() string { return EngineWhisperCLI }

// Transcribe extracts the audio track and runs whisper.cpp on it.
func (w *whisperCLI) Transcribe(ctx context.Context, mediaPath string) (*Result, error) {
	workDir, err := os.MkdirTemp(w.tempDir, "transcribe-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	audioPath, err := w.extractAudio(ctx, mediaPath, workDir)
	if err != nil {
		return nil, err
	}

	jsonPath, err := w.runWhisper(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	return parseWhisperCPP(data)
}

// extractAudio converts the media file to 16kHz mono WAV, the input
// whisper.cpp expects.
func (w *whisperCLI) extractAudio(ctx context.Context, mediaPath, workDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	audioPath := filepath.Join(workDir, base+".wav")

	w.logger.Info(ctx, "Extracting audio: %s", mediaPath)

	args := []string{
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}
	if _, err := w.executor.Execute(ctx, w.ffmpeg, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	return audioPath, nil
}

// runWhisper runs whisper.cpp with JSON output and returns the JSON path.
func (w *whisperCLI) runWhisper(ctx context.Context, audioPath string) (string, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	language := w.whisper.Language
	if language == "" {
		language = "auto"
	}

	w.logger.Info(ctx, "Transcribing with model '%s' (%d threads): %s",
		w.whisper.ModelSize, w.whisper.Threads, audioPath)

	// -oj: JSON output, -of: output prefix, -l: language ("auto" detects)
	args := []string{
		"-m", w.whisper.ModelPath,
		"-f", audioPath,
		"-oj",
		"-l", language,
		"-t", strconv.Itoa(w.whisper.Threads),
		"-of", outputPrefix,
	}
	if w.whisper.Prompt != "" {
		args = append(args, "--prompt", w.whisper.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.whisper.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	return outputPrefix + ".json", nil
}

type whisperCPPOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperCPP reads whisper.cpp -oj output. Offsets are milliseconds.
func parseWhisperCPP(data []byte) (*Result, error) {
	var out whisperCPPOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	res := &Result{
		Language: out.Result.Language,
		Segments: make([]Segment, 0, len(out.Transcription)),
	}
	for _, t := range out.Transcription {
		res.Segments = append(res.Segments, Segment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  strings.TrimSpace(t.Text),
		})
	}
	return res, nil
}
