// Package revocation records logged-out tokens until they would have expired
// anyway. Stores are keyed by the SHA-256 of the raw token so lookups can run
// before signature verification.
package revocation

import (
	"context"
	"time"
)

// Store records and queries revoked tokens for one audience
type Store interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Purger is implemented by stores that need expired entries swept
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Pinger is implemented by stores backed by a remote service
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend names accepted by configuration
const (
	BackendMemory   = "memory"
	BackendDatabase = "database"
	BackendRedis    = "redis"
)
