package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pil97/go-ticketing-backend/internal/domain"
)

func TestMemberStats_ETag(t *testing.T) {
	cases := []struct {
		name string
		st   MemberStats
		want string
	}{
		{"empty", MemberStats{}, `W/"members:0:0"`},
		{"populated", MemberStats{Count: 3, LastUpdated: time.Unix(1771971000, 0)}, `W/"members:3:1771971000000000000"`},
		{"same second, later update", MemberStats{Count: 3, LastUpdated: time.Unix(1771971000, 250)}, `W/"members:3:1771971000000000250"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.st.ETag())
		})
	}
}

func TestLoadMemberStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, &domain.Member{})

	st, err := LoadMemberStats(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, MemberStats{}, st)

	jan := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	// Non-zero timestamps are kept as given by GORM.
	require.NoError(t, db.Create(&[]domain.Member{
		{Email: "jan@example.com", Name: "Jan", CreatedAt: jan, UpdatedAt: jan},
		{Email: "mar@example.com", Name: "Mar", CreatedAt: mar, UpdatedAt: mar},
		{Email: "feb@example.com", Name: "Feb", CreatedAt: feb, UpdatedAt: feb},
	}).Error)

	st, err = LoadMemberStats(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Count)
	assert.True(t, st.LastUpdated.Equal(mar), "latest update, got %v", st.LastUpdated)
	assert.Equal(t, `W/"members:3:1741084200000000000"`, st.ETag())
}

func TestLoadMemberStats_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing table", func(t *testing.T) {
		_, err := LoadMemberStats(ctx, newTestDB(t))
		assert.Error(t, err)
	})

	t.Run("missing updated_at", func(t *testing.T) {
		db := newTestDB(t, &domain.Member{})
		require.NoError(t, db.Create(&domain.Member{Email: "x@example.com", Name: "X"}).Error)
		require.NoError(t, db.Exec(`ALTER TABLE members RENAME COLUMN updated_at TO touched_at`).Error)

		_, err := LoadMemberStats(ctx, db)
		assert.Error(t, err)
	})
}
