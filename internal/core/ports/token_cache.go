package ports

import (
	"context"
	"time"
)

// TokenCache stores short-lived carrier access tokens. Implementations may
// be process-local or shared (Redis); either way a missing or expired entry
// simply triggers a fresh token request.
type TokenCache interface {
	// Get returns the cached token for key, or ok=false when absent or
	// expired.
	Get(ctx context.Context, key string) (token string, ok bool, err error)

	// Set stores token under key for ttl.
	Set(ctx context.Context, key, token string, ttl time.Duration) error
}
