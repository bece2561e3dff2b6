package repositories

import (
	"context"
	"time"

	"paysecure/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// revokedTokenRepository implements RevokedTokenRepository interface
type revokedTokenRepository struct {
	db *gorm.DB
}

// NewRevokedTokenRepository creates a new revoked token repository
func NewRevokedTokenRepository(db *gorm.DB) RevokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

// Create records a revoked token. Revoking twice is not an error.
func (r *revokedTokenRepository) Create(ctx context.Context, token *models.RevokedToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(token).Error
}

// ExistsActive checks for an unexpired revocation
func (r *revokedTokenRepository) ExistsActive(ctx context.Context, audience, tokenHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("audience = ?", audience).
		Where("token_hash = ?", tokenHash).
		Where("expires_at > ?", time.Now()).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired deletes revocations whose tokens have expired (cleanup job)
func (r *revokedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
