package ports

import (
	"context"
	"io"
)

// ObjectStorage stores uploaded assets (client logos) and returns the public
// URL the asset is served from. Keys are caller-chosen; overwriting an
// existing key is allowed.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
}
