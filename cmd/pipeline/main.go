package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/study-digest/internal/config"
	"github.com/nguyentantai21042004/study-digest/internal/generator"
	"github.com/nguyentantai21042004/study-digest/internal/history"
	"github.com/nguyentantai21042004/study-digest/internal/logger"
	"github.com/nguyentantai21042004/study-digest/internal/menu"
	"github.com/nguyentantai21042004/study-digest/internal/pipeline"
	"github.com/nguyentantai21042004/study-digest/internal/prompt"
	"github.com/nguyentantai21042004/study-digest/internal/storage"
	"github.com/nguyentantai21042004/study-digest/internal/transcriber"
	"github.com/nguyentantai21042004/study-digest/internal/watcher"
	"github.com/nguyentantai21042004/study-digest/pkg/executor"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to the YAML config file")
	watch := pflag.BoolP("watch", "w", false, "watch the input folder and run the pipeline for new media")
	historyN := pflag.Int("history", 0, "print the last N recorded runs and exit")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [media-file]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "With a media file, runs the full pipeline and exits. Without one, opens the menu.")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log := logger.NewWithWriter(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Debug(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		return 1
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.DBPath)
		if err != nil {
			log.Error(ctx, "Failed to open run history: %v", err)
			return 1
		}
		defer store.Close()
	}

	if *historyN > 0 {
		if store == nil {
			fmt.Fprintln(os.Stderr, "Run history is disabled (history.enabled: false)")
			return 1
		}
		return printHistory(ctx, store, *historyN)
	}

	proc, err := newProcessor(ctx, cfg, store, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		return 1
	}

	switch {
	case *watch:
		return runWatch(ctx, cfg, proc, log)
	case pflag.NArg() == 1:
		return runBatch(ctx, proc, pflag.Arg(0))
	case pflag.NArg() > 1:
		pflag.Usage()
		return 2
	}

	if err := menu.Run(ctx, proc, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Menu error: %v", err)
		return 1
	}
	return 0
}

// newProcessor wires the pipeline from cfg. The generator is left out when
// no API keys are set, so stages that do not need it keep working.
func newProcessor(ctx context.Context, cfg *config.Config, store *history.Store, log logger.Logger) (pipeline.Processor, error) {
	tr, err := transcriber.New(cfg, executor.New(), log)
	if err != nil {
		return nil, err
	}

	builder, err := prompt.New(cfg.Prompt.TemplatePath)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "Prompt template: %s", cfg.Prompt.Version)

	deps := pipeline.Deps{
		Transcriber: tr,
		Prompt:      builder,
	}
	if store != nil {
		deps.Recorder = store
	}

	if len(cfg.Gemini.APIKeys) > 0 {
		gen, err := generator.NewGemini(generator.GeminiOptions{
			APIKeys:          cfg.Gemini.APIKeys,
			Model:            cfg.Gemini.Model,
			ResponseMIMEType: cfg.Gemini.ResponseMIMEType,
		}, log)
		if err != nil {
			return nil, err
		}
		deps.Generator = gen
		log.Info(ctx, "Gemini model %s with %d API key(s)", cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
	} else {
		log.Warn(ctx, "No %sN variables set; summarization is disabled", config.APIKeyEnvPrefix)
	}

	if s3cfg := cfg.Storage.S3; s3cfg.Enabled {
		up, err := storage.NewS3(ctx, storage.S3Options{
			Bucket:         s3cfg.Bucket,
			Region:         s3cfg.Region,
			Endpoint:       s3cfg.Endpoint,
			Prefix:         s3cfg.Prefix,
			ForcePathStyle: s3cfg.ForcePathStyle,
		})
		if err != nil {
			return nil, err
		}
		deps.Uploader = up
		log.Info(ctx, "Publishing artifacts to s3://%s/%s", s3cfg.Bucket, s3cfg.Prefix)
	}

	return pipeline.New(cfg, deps, log), nil
}

func runBatch(ctx context.Context, proc pipeline.Processor, mediaPath string) int {
	res, err := proc.Run(ctx, mediaPath)
	if err != nil {
		state, _ := pipeline.FailedState(err)
		fmt.Fprintf(os.Stderr, "Pipeline failed at stage %s\n", state)
		for e := err; e != nil; e = errors.Unwrap(e) {
			fmt.Fprintf(os.Stderr, "  caused by: %v\n", e)
		}
		os.Stderr.Write(debug.Stack())
		return 1
	}

	menu.Print(os.Stdout, res.SummaryPath, nil)
	return 0
}

func runWatch(ctx context.Context, cfg *config.Config, proc pipeline.Processor, log logger.Logger) int {
	handler := func(ctx context.Context, path string) error {
		if _, err := proc.Run(ctx, path); err != nil {
			return err
		}
		return proc.Archive(ctx, path)
	}

	w, err := watcher.New(cfg.Paths.Input, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		return 1
	}
	defer w.Stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Study digest is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Whisper: %s, model %s, %d threads", cfg.Whisper.Engine, cfg.Whisper.ModelSize, cfg.Whisper.Threads)
	log.Info(ctx, "Concurrent: %d files at once", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Watcher error: %v", err)
		return 1
	}

	log.Info(ctx, "Study digest stopped")
	return 0
}

func printHistory(ctx context.Context, store *history.Store, n int) int {
	runs, err := store.Recent(ctx, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read run history: %v\n", err)
		return 1
	}

	for _, r := range runs {
		outcome := r.State
		if r.FailedStage != "" {
			outcome = fmt.Sprintf("%s at %s: %s", r.State, r.FailedStage, r.Error)
		}
		took := "-"
		if !r.FinishedAt.IsZero() {
			took = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Printf("%s  %-9s  %-8s  %s  %s\n", r.StartedAt.Format(time.DateTime), r.Operation, took, r.Input, outcome)
	}
	return 0
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
