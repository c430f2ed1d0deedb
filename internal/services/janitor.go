package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pil97/go-ticketing-backend/internal/repo"
)

// KeyJanitor periodically deletes idempotency records whose replay window has
// closed. Expired records are already ignored on lookup and replaced on claim,
// so the janitor only bounds table growth.
type KeyJanitor struct {
	DB    *gorm.DB
	Every time.Duration

	now func() time.Time
}

// NewKeyJanitor returns a janitor that sweeps every interval.
func NewKeyJanitor(db *gorm.DB, every time.Duration) *KeyJanitor {
	return &KeyJanitor{DB: db, Every: every, now: func() time.Time { return time.Now().UTC() }}
}

// Sweep runs one purge and returns the number of records removed.
func (j *KeyJanitor) Sweep(ctx context.Context) (int64, error) {
	ctx, span := tracer().Start(ctx, "KeyJanitor.Sweep")
	defer span.End()

	n, err := repo.PurgeExpiredIdempotency(ctx, j.DB, j.now())
	if err != nil {
		span.RecordError(err)
	}
	return n, err
}

// Run sweeps once immediately and then on every tick until ctx is done.
// Failures are logged and the loop keeps going.
func (j *KeyJanitor) Run(ctx context.Context) {
	t := time.NewTicker(j.Every)
	defer t.Stop()

	for {
		n, err := j.Sweep(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn().Err(err).Msg("idempotency purge failed")
		case n > 0:
			log.Debug().Int64("purged", n).Msg("idempotency records purged")
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
