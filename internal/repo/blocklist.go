package repo

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/promiseee/pizza-delivery-api/internal/models"
)

func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Revoke is idempotent: revoking an already-revoked jti is a no-op.
func (r *GormRepo) Revoke(ctx context.Context, jti string, at time.Time) error {
	entry := models.RevokedToken{JTI: jti, RevokedAt: at}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}
