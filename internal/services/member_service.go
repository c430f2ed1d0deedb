// MemberService owns the member lifecycle. It normalizes input, maps
// repository errors onto catalog failures, and makes creation retryable
// through idempotency records written in the member's transaction.

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/pil97/go-ticketing-backend/internal/domain"
	"github.com/pil97/go-ticketing-backend/internal/observability"
	"github.com/pil97/go-ticketing-backend/internal/repo"
)

// CreateMemberScope is the idempotency scope of member creation.
const CreateMemberScope = "POST /members"

// MemberRepo defines the repository contract required by MemberService.
type MemberRepo interface {
	// CreateMember inserts a new member row.
	CreateMember(ctx context.Context, db *gorm.DB, email, name string) (*domain.Member, error)

	// GetMember fetches a member by ID.
	GetMember(ctx context.Context, db *gorm.DB, id uint64) (*domain.Member, error)

	// ListRecentMembers returns at most limit members, newest first.
	ListRecentMembers(ctx context.Context, db *gorm.DB, limit int) ([]domain.Member, error)

	// UpdateMember applies the non-nil changes to a member.
	UpdateMember(ctx context.Context, db *gorm.DB, id uint64, ch repo.MemberChanges) (*domain.Member, error)

	// DeleteMember removes a member.
	DeleteMember(ctx context.Context, db *gorm.DB, id uint64) error
}

// CreateMemberInput carries the fields of a new member.
type CreateMemberInput struct {
	Email string
	Name  string
}

// UpdateMemberInput carries the optional fields of a member update.
type UpdateMemberInput struct {
	Email *string
	Name  *string
}

// MemberService provides member CRUD on top of a MemberRepo.
type MemberService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the member repository used by this service.
	Repo MemberRepo

	// ListLimit caps List results. Values <= 0 default to 20.
	ListLimit int
	// IdempotencyTTL is how long a create can be replayed by key.
	IdempotencyTTL time.Duration
}

// NewMemberService constructs a MemberService with default limits.
func NewMemberService(db *gorm.DB, r MemberRepo) *MemberService {
	return &MemberService{
		DB:             db,
		Repo:           r,
		ListLimit:      20,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// errKeyRace aborts a create whose idempotency key was claimed concurrently.
var errKeyRace = errors.New("idempotency key claimed concurrently")

// Create inserts a member. When idemKey is non-empty and a live record for it
// exists, the member created by the first request is returned with
// replayed=true and nothing is inserted.
func (s *MemberService) Create(ctx context.Context, in CreateMemberInput, idemKey string) (m *domain.Member, replayed bool, err error) {
	ctx, span := tracer().Start(ctx, "MemberService.Create",
		trace.WithAttributes(attribute.Bool("idempotency.key_present", idemKey != "")),
	)
	defer span.End()

	email, name := normalizeEmail(in.Email), normalizeName(in.Name)
	now := time.Now().UTC()

	if idemKey != "" {
		if prev, ok := s.replay(ctx, idemKey, now); ok {
			return prev, true, nil
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.Repo.CreateMember(ctx, tx, email, name)
		if err != nil {
			return err
		}
		if idemKey != "" {
			rec := domain.NewIdempotency(CreateMemberScope, idemKey, created.ID, http.StatusCreated, now, s.IdempotencyTTL)
			if err := repo.ClaimIdempotency(ctx, tx, &rec, now); err != nil {
				if errors.Is(err, repo.ErrDuplicate) {
					return errKeyRace
				}
				return err
			}
		}
		m = created
		return nil
	})
	if err == nil {
		return m, false, nil
	}
	// A concurrent request with the same key may have committed first; its
	// insert shows up here as a key race or as a duplicate email.
	raced := errors.Is(err, errKeyRace)
	dup := errors.Is(err, repo.ErrDuplicate)
	if idemKey != "" && (raced || dup) {
		if prev, ok := s.replay(ctx, idemKey, now); ok {
			return prev, true, nil
		}
	}
	if dup {
		return nil, false, ErrDuplicateEmail.WithCause(err)
	}
	return nil, false, err
}

// replay returns the member recorded for idemKey, if the record is live and
// the member still exists.
func (s *MemberService) replay(ctx context.Context, idemKey string, now time.Time) (*domain.Member, bool) {
	rec, err := repo.GetIdempotency(ctx, s.DB, CreateMemberScope, idemKey, now)
	if err != nil || rec == nil {
		return nil, false
	}
	prev, err := s.Repo.GetMember(ctx, s.DB, rec.MemberID)
	if err != nil {
		return nil, false
	}
	return prev, true
}

// Get returns the member with the given ID.
func (s *MemberService) Get(ctx context.Context, id uint64) (*domain.Member, error) {
	ctx, span := tracer().Start(ctx, "MemberService.Get",
		trace.WithAttributes(attribute.Int64("member.id", int64(id))),
	)
	defer span.End()

	m, err := s.Repo.GetMember(ctx, s.DB, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return m, nil
}

// List returns the most recently created members, newest first.
func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	limit := s.ListLimit
	if limit <= 0 {
		limit = 20
	}
	ctx, span := tracer().Start(ctx, "MemberService.List",
		trace.WithAttributes(attribute.Int("list.limit", limit)),
	)
	defer span.End()

	return s.Repo.ListRecentMembers(ctx, s.DB, limit)
}

// Update changes the provided fields of a member. At least one field must be
// set; the member must exist either way.
func (s *MemberService) Update(ctx context.Context, id uint64, in UpdateMemberInput) (*domain.Member, error) {
	ctx, span := tracer().Start(ctx, "MemberService.Update",
		trace.WithAttributes(attribute.Int64("member.id", int64(id))),
	)
	defer span.End()

	if in.Email == nil && in.Name == nil {
		// A missing member wins over an empty body.
		if _, err := s.Repo.GetMember(ctx, s.DB, id); err != nil {
			return nil, mapRepoErr(err)
		}
		return nil, ErrEmptyUpdate
	}
	var ch repo.MemberChanges
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		ch.Email = &e
	}
	if in.Name != nil {
		n := normalizeName(*in.Name)
		ch.Name = &n
	}

	m, err := s.Repo.UpdateMember(ctx, s.DB, id, ch)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return m, nil
}

// Delete removes the member with the given ID.
func (s *MemberService) Delete(ctx context.Context, id uint64) error {
	ctx, span := tracer().Start(ctx, "MemberService.Delete",
		trace.WithAttributes(attribute.Int64("member.id", int64(id))),
	)
	defer span.End()

	if err := s.Repo.DeleteMember(ctx, s.DB, id); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

// mapRepoErr converts repository sentinels into member failures and leaves
// anything else untouched.
func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrMemberNotFound.WithCause(err)
	case errors.Is(err, repo.ErrDuplicate):
		return ErrDuplicateEmail.WithCause(err)
	default:
		return err
	}
}

func tracer() trace.Tracer { return observability.Tracer("services/member") }

// normalizeEmail trims and lower-cases an email address.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeName trims a display name and brings it to Unicode NFC so
// visually identical names are stored identically.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
