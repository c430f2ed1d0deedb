// Member HTTP handlers.
//
// This file exposes REST endpoints for member resources:
//   - POST   /members        (create, idempotent with Idempotency-Key)
//   - GET    /members        (list newest first, ETag support)
//   - GET    /members/{id}   (fetch)
//   - PATCH  /members/{id}   (partial update)
//   - DELETE /members/{id}   (remove)
//
// Handlers are transport-thin: they bind and validate input, call the member
// service, and wrap results in the success envelope. Every failure is handed
// to fail() and rendered by the ErrorHandler middleware.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pil97/go-ticketing-backend/internal/apperr"
	"github.com/pil97/go-ticketing-backend/internal/domain"
	"github.com/pil97/go-ticketing-backend/internal/http/middleware"
	"github.com/pil97/go-ticketing-backend/internal/repo"
	"github.com/pil97/go-ticketing-backend/internal/services"
	"github.com/pil97/go-ticketing-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// MemberService defines member lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MemberService interface {
	// Create inserts a member; replayed is true when idemKey matched a
	// previous create and no row was inserted.
	Create(ctx context.Context, in services.CreateMemberInput, idemKey string) (m *domain.Member, replayed bool, err error)
	// Get fetches a member by ID.
	Get(ctx context.Context, id uint64) (*domain.Member, error)
	// List returns the most recent members, newest first.
	List(ctx context.Context) ([]domain.Member, error)
	// Update applies the provided fields to a member.
	Update(ctx context.Context, id uint64, in services.UpdateMemberInput) (*domain.Member, error)
	// Delete removes a member.
	Delete(ctx context.Context, id uint64) error
}

//
// Handler wiring
//

// Handlers groups the member and health endpoints.
type Handlers struct {
	memberSvc MemberService
	// db backs list ETags and the database health probe. May be nil.
	db *gorm.DB
}

// New constructs and returns a Handlers instance bound to the given service.
func New(memberSvc MemberService, db *gorm.DB) *Handlers {
	return &Handlers{memberSvc: memberSvc, db: db}
}

//
// DTOs
//

// CreateMemberRequest is the JSON payload for registering a member.
type CreateMemberRequest struct {
	Email string `json:"email" binding:"required,notblank,email,max=100" example:"alice@example.com"`
	Name  string `json:"name" binding:"required,notblank,max=30" example:"Alice"`
}

// UpdateMemberRequest is the JSON payload for a partial member update.
// Omitted fields are left unchanged; at least one must be present.
type UpdateMemberRequest struct {
	Email *string `json:"email" binding:"omitempty,email,max=100" example:"alice@example.org"`
	Name  *string `json:"name" binding:"omitempty,notblank,max=30" example:"Alice B."`
}

// MemberResponse is the public representation of a member.
type MemberResponse struct {
	ID    uint64 `json:"id" example:"1"`
	Email string `json:"email" example:"alice@example.com"`
	Name  string `json:"name" example:"Alice"`
}

func toMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{ID: m.ID, Email: m.Email, Name: m.Name}
}

// memberID parses the :id path parameter.
func memberID(c *gin.Context) (uint64, error) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		return 0, apperr.New(apperr.CommonInvalidRequest).WithCause(err)
	}
	return id, nil
}

//
// Handlers
//

// CreateMember godoc
// @ID          createMember
// @Summary     Register a member
// @Description Creates a member and returns it with a Location header. Supports idempotency via the Idempotency-Key header (same key → same member).
// @Tags        Members
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreateMemberRequest  true  "Member payload"
//
// @Success     201  {object}  handlers.MemberEnvelope
// @Header      201  {string}  Location              "URI of the created member"
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorEnvelope  "Validation failed or malformed body"
// @Failure     409  {object}  handlers.ErrorEnvelope  "Duplicate email"
// @Failure     429  {object}  handlers.ErrorEnvelope  "Too many requests"
// @Failure     500  {object}  handlers.ErrorEnvelope  "Internal error"
// @Router      /members [post]
func (h *Handlers) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	m, replayed, err := h.memberSvc.Create(c.Request.Context(),
		services.CreateMemberInput{Email: req.Email, Name: req.Name}, key)
	if err != nil {
		fail(c, err)
		return
	}

	if replayed {
		c.Header("Idempotency-Replayed", "true")
	}
	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+strconv.FormatUint(m.ID, 10))
	ok(c, http.StatusCreated, toMemberResponse(m))
}

// ListMembers godoc
// @ID          listMembers
// @Summary     List recent members
// @Description Returns the most recently registered members, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Members
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"members:3:1771971000000000000\")
//
// @Success     200  {object} handlers.MemberListEnvelope
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorEnvelope "Internal error"
// @Router      /members [get]
func (h *Handlers) ListMembers(c *gin.Context) {
	ctx := c.Request.Context()

	// A stats failure only costs the ETag; the list below still runs.
	if h.db != nil {
		if st, err := repo.LoadMemberStats(ctx, h.db); err == nil {
			etag := st.ETag()
			c.Header("ETag", etag)
			if c.GetHeader("If-None-Match") == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.memberSvc.List(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]MemberResponse, 0, len(items))
	for i := range items {
		out = append(out, toMemberResponse(&items[i]))
	}
	ok(c, http.StatusOK, out)
}

// GetMember godoc
// @ID          getMember
// @Summary     Fetch a member
// @Tags        Members
// @Produce     json
//
// @Param       id  path  int  true  "Member ID"  minimum(1) example(1)
//
// @Success     200  {object} handlers.MemberEnvelope
// @Failure     400  {object} handlers.ErrorEnvelope "Invalid id"
// @Failure     404  {object} handlers.ErrorEnvelope "Member not found"
// @Failure     500  {object} handlers.ErrorEnvelope "Internal error"
// @Router      /members/{id} [get]
func (h *Handlers) GetMember(c *gin.Context) {
	id, err := memberID(c)
	if err != nil {
		fail(c, err)
		return
	}
	m, err := h.memberSvc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toMemberResponse(m))
}

// UpdateMember godoc
// @ID          updateMember
// @Summary     Update a member
// @Description Changes the email and/or name of a member. At least one field is required.
// @Tags        Members
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                           true  "Member ID"  minimum(1) example(1)
// @Param       body  body  handlers.UpdateMemberRequest  true  "Fields to change"
//
// @Success     200  {object} handlers.MemberEnvelope
// @Failure     400  {object} handlers.ErrorEnvelope "Validation failed or empty update"
// @Failure     404  {object} handlers.ErrorEnvelope "Member not found"
// @Failure     409  {object} handlers.ErrorEnvelope "Duplicate email"
// @Failure     500  {object} handlers.ErrorEnvelope "Internal error"
// @Router      /members/{id} [patch]
func (h *Handlers) UpdateMember(c *gin.Context) {
	id, err := memberID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req UpdateMemberRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	m, err := h.memberSvc.Update(c.Request.Context(), id,
		services.UpdateMemberInput{Email: req.Email, Name: req.Name})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, toMemberResponse(m))
}

// DeleteMember godoc
// @ID          deleteMember
// @Summary     Delete a member
// @Tags        Members
//
// @Param       id  path  int  true  "Member ID"  minimum(1) example(1)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorEnvelope "Invalid id"
// @Failure     404  {object} handlers.ErrorEnvelope "Member not found"
// @Failure     500  {object} handlers.ErrorEnvelope "Internal error"
// @Router      /members/{id} [delete]
func (h *Handlers) DeleteMember(c *gin.Context) {
	id, err := memberID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.memberSvc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
