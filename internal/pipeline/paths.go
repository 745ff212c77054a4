package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// baseName strips directory and extension: "/in/lecture 1.mp4" -> "lecture 1".
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (p *implProcessor) outputPath(name string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(p.cfg.Paths.Output, name), nil
}

func captionName(base string) string { return base + ".vtt" }
func segmentName(base string) string { return base + ".json" }
func summaryName(base string) string { return "summary_" + base + ".json" }
func docxName(base string) string    { return "summary_" + base + ".docx" }

// requireFile fails with ErrMissingInput, attributed to the stage that
// would have consumed the file.
func requireFile(path string, stage State) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &StageError{State: stage, Err: fmt.Errorf("%w: %s", ErrMissingInput, path)}
	}
	return nil
}

// Archive moves a processed input file to the archive folder.
func (p *implProcessor) Archive(ctx context.Context, path string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	dest := filepath.Join(p.cfg.Paths.Archived, filepath.Base(path))
	p.log.Info(ctx, "Archiving input: %s -> %s", path, dest)

	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to archive: %w", err)
	}
	return nil
}
