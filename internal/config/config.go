package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnvPrefix names the numbered Gemini key variables: GOOGLE_API_KEY_1, _2, ...
const APIKeyEnvPrefix = "GOOGLE_API_KEY_"

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Prompt      PromptConfig      `yaml:"prompt"`
	History     HistoryConfig     `yaml:"history"`
	Export      ExportConfig      `yaml:"export"`
	Storage     StorageConfig     `yaml:"storage"`
}

type WhisperConfig struct {
	// Engine selects the speech-to-text adapter: "whisper-cli" or "whisper-http".
	Engine     string `yaml:"engine" validate:"omitempty,oneof=whisper-cli whisper-http"`
	ModelSize  string `yaml:"model_size" validate:"omitempty,oneof=tiny base small medium large large-v2 large-v3"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	URL        string `yaml:"url" validate:"omitempty,url"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads" validate:"gte=0"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output" validate:"required"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" validate:"gte=0"`
}

type GeminiConfig struct {
	Model            string `yaml:"model"`
	ResponseMIMEType string `yaml:"response_mime_type"`
	// APIKeys is filled from the environment, never from YAML.
	APIKeys []string `yaml:"-"`
}

type PromptConfig struct {
	TemplatePath string `yaml:"template_path"`
	Version      string `yaml:"version"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

// StorageConfig controls publishing finished runs to object storage.
type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled        bool   `yaml:"enabled"`
	Bucket         string `yaml:"bucket" validate:"required_if=Enabled true"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint" validate:"omitempty,url"`
	Prefix         string `yaml:"prefix"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

var validate = validator.New()

// Load reads the YAML config at path, loads .env if present, fills API keys
// from the environment and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.Gemini.APIKeys = APIKeysFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// APIKeysFromEnv collects GOOGLE_API_KEY_1..N, stopping at the first gap.
func APIKeysFromEnv() []string {
	var keys []string
	for i := 1; ; i++ {
		v := strings.TrimSpace(os.Getenv(APIKeyEnvPrefix + strconv.Itoa(i)))
		if v == "" {
			return keys
		}
		keys = append(keys, v)
	}
}

// Validate checks field constraints and applies defaults.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Whisper.Engine == "" {
		c.Whisper.Engine = "whisper-cli"
	}
	if c.Whisper.ModelSize == "" {
		c.Whisper.ModelSize = "tiny"
	}
	if c.Whisper.Engine == "whisper-cli" {
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required for the whisper-cli engine")
		}
		if c.Whisper.ModelPath == "" {
			c.Whisper.ModelPath = filepath.Join("models", "ggml-"+c.Whisper.ModelSize+".bin")
		}
	}
	if c.Whisper.Engine == "whisper-http" && c.Whisper.URL == "" {
		c.Whisper.URL = "http://localhost:8387"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "uploads"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = filepath.Join(c.Paths.Output, "archived")
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Prompt.Version == "" {
		c.Prompt.Version = "builtin-v1"
	}
	if c.Storage.S3.Enabled && c.Storage.S3.Region == "" {
		c.Storage.S3.Region = "us-east-1"
	}
	if c.History.DBPath == "" {
		c.History.DBPath = filepath.Join(c.Paths.Output, "runs.sqlite")
	}

	return nil
}
