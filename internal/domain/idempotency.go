package domain

import (
	"time"

	"github.com/google/uuid"
)

// Idempotency remembers which member a create request produced. A retry that
// carries the same key on the same scope ("POST /members") before ExpiresAt
// gets that member back instead of a second insert.
type Idempotency struct {
	ID        string    `gorm:"primaryKey;type:TEXT"`
	Scope     string    `gorm:"type:TEXT;not null;uniqueIndex:ux_idempotency_scope_key,priority:1"`
	Key       string    `gorm:"type:TEXT;not null;uniqueIndex:ux_idempotency_scope_key,priority:2"`
	MemberID  uint64    `gorm:"not null;index"`
	Status    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// NewIdempotency builds a record for memberID that stays live for ttl after now.
func NewIdempotency(scope, key string, memberID uint64, status int, now time.Time, ttl time.Duration) Idempotency {
	return Idempotency{
		ID:        uuid.NewString(),
		Scope:     scope,
		Key:       key,
		MemberID:  memberID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the replay window closed at or before now.
func (i Idempotency) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// TableName returns the database table name for Idempotency.
func (Idempotency) TableName() string { return "member_idempotency" }
