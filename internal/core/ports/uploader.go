package ports

import (
	"context"
	"time"
)

// Uploader persists an encoded image payload ("<mime>;base64, <data>") and
// returns the reference stored as Blog.Image.
type Uploader interface {
	Store(ctx context.Context, payload string) (string, error)
}

// IdempotencyStore remembers which blog a client-supplied key produced.
type IdempotencyStore interface {
	// Lookup returns the remembered blog ID and whether one was found.
	Lookup(ctx context.Context, ownerID int64, key string) (int64, bool, error)
	Remember(ctx context.Context, ownerID int64, key string, blogID int64, ttl time.Duration) error
}
