package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pil97/go-ticketing-backend/internal/domain"
)

// GetIdempotency returns the record for (scope, key) that is still live at
// now, or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where(&domain.Idempotency{Scope: scope, Key: key}).
		Where("expires_at > ?", now).
		Take(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ClaimIdempotency stores rec. An expired record still holding the same
// (scope, key) is removed first; a live one makes the claim fail with
// ErrDuplicate.
func ClaimIdempotency(ctx context.Context, db *gorm.DB, rec *domain.Idempotency, now time.Time) error {
	tx := db.WithContext(ctx)
	if err := tx.
		Where(&domain.Idempotency{Scope: rec.Scope, Key: rec.Key}).
		Where("expires_at <= ?", now).
		Delete(&domain.Idempotency{}).Error; err != nil {
		return err
	}
	if err := tx.Create(rec).Error; err != nil {
		return translateWriteErr(err)
	}
	return nil
}

// PurgeExpiredIdempotency deletes every record whose window closed at or
// before now and returns how many were removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
