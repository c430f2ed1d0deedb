package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pil97/go-ticketing-backend/internal/domain"
)

// MemberStats summarizes the members table for conditional GETs.
type MemberStats struct {
	Count       int64
	LastUpdated time.Time // zero when the table is empty
}

// ETag renders s as a weak validator. Any insert, update or delete changes
// either the count or the latest update time. The time is rendered in
// nanoseconds so that two updates within the same second differ.
func (s MemberStats) ETag() string {
	var ts int64
	if !s.LastUpdated.IsZero() {
		ts = s.LastUpdated.UnixNano()
	}
	return fmt.Sprintf(`W/"members:%d:%d"`, s.Count, ts)
}

// LoadMemberStats counts members and finds the most recent updated_at.
func LoadMemberStats(ctx context.Context, db *gorm.DB) (MemberStats, error) {
	var st MemberStats
	if err := db.WithContext(ctx).Model(&domain.Member{}).Count(&st.Count).Error; err != nil {
		return MemberStats{}, err
	}
	if st.Count == 0 {
		return st, nil
	}

	// MAX(updated_at) comes back as TEXT from SQLite, so read the newest row.
	var latest domain.Member
	err := db.WithContext(ctx).
		Select("updated_at").
		Order("updated_at DESC").
		Take(&latest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return MemberStats{}, nil
	case err != nil:
		return MemberStats{}, err
	}
	st.LastUpdated = latest.UpdatedAt
	return st, nil
}
