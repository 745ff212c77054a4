// Package transcriber adapts external speech-to-text engines.
//
// Engines:
//   - whisper-cli: whisper.cpp run through pkg/executor, fed a 16 kHz mono WAV from ffmpeg
//   - whisper-http: a faster-whisper HTTP sidecar
package transcriber

import (
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/study-digest/internal/config"
	"github.com/nguyentantai21042004/study-digest/internal/logger"
	"github.com/nguyentantai21042004/study-digest/pkg/executor"
)

const (
	EngineWhisperCLI  = "whisper-cli"
	EngineWhisperHTTP = "whisper-http"
)

// New creates the Transcriber selected by cfg.Whisper.Engine.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Whisper.Engine {
	case EngineWhisperCLI, "":
		return &whisperCLI{
			whisper:  cfg.Whisper,
			ffmpeg:   cfg.FFmpeg.BinaryPath,
			tempDir:  cfg.Paths.Temp,
			executor: exec,
			logger:   log,
		}, nil
	case EngineWhisperHTTP:
		return &whisperHTTP{
			cfg:    cfg.Whisper,
			client: &http.Client{},
			logger: log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transcription engine %q", cfg.Whisper.Engine)
	}
}
