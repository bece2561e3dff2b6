package revocation

import (
	"context"
	"time"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/pkg/password"
)

// DatabaseStore persists revocations in the revoked_tokens table.
// Purge is shared by every audience on the table.
type DatabaseStore struct {
	repo     repositories.RevokedTokenRepository
	audience string
}

// NewDatabaseStore creates a store for one audience
func NewDatabaseStore(repo repositories.RevokedTokenRepository, audience string) *DatabaseStore {
	return &DatabaseStore{repo: repo, audience: audience}
}

// Revoke records token until expiresAt
func (s *DatabaseStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if !expiresAt.After(time.Now()) {
		return nil
	}
	return s.repo.Create(ctx, &models.RevokedToken{
		Audience:  s.audience,
		TokenHash: password.HashToken(token),
		ExpiresAt: expiresAt,
	})
}

// IsRevoked reports whether token has an active revocation
func (s *DatabaseStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.repo.ExistsActive(ctx, s.audience, password.HashToken(token))
}

// Purge deletes expired rows
func (s *DatabaseStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
