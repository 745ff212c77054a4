package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// PublishFiles uploads each local file as dir/<file name>. Empty paths are
// skipped. It stops at the first failure.
func PublishFiles(ctx context.Context, u Uploader, dir string, files ...string) ([]string, error) {
	var keys []string
	for _, f := range files {
		if f == "" {
			continue
		}
		key := path.Join(dir, filepath.Base(f))
		if err := uploadFile(ctx, u, key, f); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func uploadFile(ctx context.Context, u Uploader, key, file string) error {
	fh, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer fh.Close()

	return u.Upload(ctx, key, fh)
}
