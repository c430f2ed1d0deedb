package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pil97/go-ticketing-backend/internal/repo"
)

// healthDBTimeout bounds the database probe.
const healthDBTimeout = 2 * time.Second

var errNoDatabase = errors.New("no database configured")

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        Health
// @Produce     json
// @Success     200  {object} handlers.StatusEnvelope
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, "ok")
}

// HealthDB godoc
// @ID          healthDB
// @Summary     Database readiness probe
// @Description Runs SELECT 1 against the database.
// @Tags        Health
// @Produce     json
// @Success     200  {object} handlers.StatusEnvelope
// @Failure     500  {object} handlers.ErrorEnvelope "Database unavailable"
// @Router      /health/db [get]
func (h *Handlers) HealthDB(c *gin.Context) {
	if h.db == nil {
		fail(c, errNoDatabase)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthDBTimeout)
	defer cancel()

	if err := repo.Ping(ctx, h.db); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "ok")
}
