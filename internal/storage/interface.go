package storage

import (
	"context"
	"io"
)

// Uploader writes objects to remote storage.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}
