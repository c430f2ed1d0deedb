// Member queries. Not-found reads return ErrNotFound and unique-index
// violations return ErrDuplicate; other errors pass through unchanged.

package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pil97/go-ticketing-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a unique index rejected the write.
var ErrDuplicate = errors.New("duplicate")

// MemberChanges holds the optional fields of a member update. Nil fields are
// left untouched.
type MemberChanges struct {
	Email *string
	Name  *string
}

// CreateMember inserts a new member and returns it with its generated ID.
func CreateMember(ctx context.Context, db *gorm.DB, email, name string) (*domain.Member, error) {
	m := &domain.Member{Email: email, Name: name}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, translateWriteErr(err)
	}
	return m, nil
}

// GetMember fetches a member by ID, or ErrNotFound.
func GetMember(ctx context.Context, db *gorm.DB, id uint64) (*domain.Member, error) {
	var m domain.Member
	if err := db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListRecentMembers returns at most limit members, newest (highest ID) first.
func ListRecentMembers(ctx context.Context, db *gorm.DB, limit int) ([]domain.Member, error) {
	out := make([]domain.Member, 0, limit)
	err := db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateMember applies the non-nil fields of ch to the member with the
// given ID and returns the updated row. It returns ErrNotFound when no such
// member exists and ErrDuplicate when the new email is taken.
func UpdateMember(ctx context.Context, db *gorm.DB, id uint64, ch MemberChanges) (*domain.Member, error) {
	m, err := GetMember(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if ch.Email != nil {
		m.Email = *ch.Email
	}
	if ch.Name != nil {
		m.Name = *ch.Name
	}
	if err := db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, translateWriteErr(err)
	}
	return m, nil
}

// DeleteMember removes the member with the given ID, or returns ErrNotFound.
func DeleteMember(ctx context.Context, db *gorm.DB, id uint64) error {
	res := db.WithContext(ctx).Delete(&domain.Member{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translateWriteErr maps unique-index violations to ErrDuplicate.
// glebarez/sqlite does not always translate them to gorm.ErrDuplicatedKey,
// so the driver text is checked as a fallback.
func translateWriteErr(err error) error {
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// MemberStore exposes the member functions as a value, for callers that take
// the repository as an interface.
type MemberStore struct{}

func (MemberStore) CreateMember(ctx context.Context, db *gorm.DB, email, name string) (*domain.Member, error) {
	return CreateMember(ctx, db, email, name)
}

func (MemberStore) GetMember(ctx context.Context, db *gorm.DB, id uint64) (*domain.Member, error) {
	return GetMember(ctx, db, id)
}

func (MemberStore) ListRecentMembers(ctx context.Context, db *gorm.DB, limit int) ([]domain.Member, error) {
	return ListRecentMembers(ctx, db, limit)
}

func (MemberStore) UpdateMember(ctx context.Context, db *gorm.DB, id uint64, ch MemberChanges) (*domain.Member, error) {
	return UpdateMember(ctx, db, id, ch)
}

func (MemberStore) DeleteMember(ctx context.Context, db *gorm.DB, id uint64) error {
	return DeleteMember(ctx, db, id)
}
