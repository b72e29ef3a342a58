package storage

import (
	"context"
	"io"
)

// Uploader persists synthesized audio and returns a client-reachable URL.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (url string, err error)
}
