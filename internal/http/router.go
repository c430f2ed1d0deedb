// Package httpapi assembles the Gin engine: the middleware chain, health and
// metrics endpoints, and the member API under the configured base path.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/pil97/go-ticketing-backend/internal/apperr"
	"github.com/pil97/go-ticketing-backend/internal/config"
	"github.com/pil97/go-ticketing-backend/internal/http/handlers"
	"github.com/pil97/go-ticketing-backend/internal/http/middleware"
	"github.com/pil97/go-ticketing-backend/internal/repo"
	"github.com/pil97/go-ticketing-backend/internal/services"
)

var (
	corsMethods       = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	corsAllowHeaders  = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey}
	corsExposeHeaders = []string{"X-Request-ID", "Content-Length", "Location", "ETag", "Idempotency-Replayed"}
)

// RegisterRoutes installs the middleware chain and every endpoint on r.
//
// Order of the chain, outermost first:
//
//	otelgin > RequestID > RedactingLogger > Metrics > gzip > ErrorHandler >
//	Recovery > CORS > SecurityHeaders > limitBody > IdempotencyValidator >
//	RateLimiter
//
// Everything below ErrorHandler reports failures through c.Error, so each
// failure envelope is written once and still carries the CORS and security
// headers. The idempotency check runs before the rate limiter so replays can
// skip it.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(
		otelgin.Middleware(cfg.OTEL.ServiceName),
		middleware.RequestID(),
		middleware.RedactingLogger(middleware.RedactOptions{MaskHeaders: []string{"X-API-Key"}}),
		middleware.Metrics(),
	)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// promhttp does its own content negotiation.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.ErrorHandler(), middleware.Recovery())
	r.Use(corsChain(cfg.CORS.AllowedOrigins)...)
	r.Use(
		middleware.SecurityHeaders(middleware.SecurityOptions{
			EnableHSTS:    cfg.Security.EnableHSTS,
			HSTSMaxAge:    cfg.Security.HSTSMaxAge,
			EnablePolicy:  true,
			ExposeHeaders: []string{"Location", "ETag", "Idempotency-Replayed"},
		}),
		limitBody(cfg.MaxBodyBytes),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope:  middleware.RouteScope(cfg.APIBasePath),
		}, replayLookup(db)),
		middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP()).Handler(),
	)

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, apperr.New(apperr.CommonNotFound))
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, &apperr.MethodNotAllowedError{Method: c.Request.Method, Path: c.Request.URL.Path})
	})

	h := handlers.New(newMemberService(db, cfg), db)

	r.GET("/health", h.Health)
	r.GET("/health/db", h.HealthDB)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	members := groupWithPrefix(r, cfg.APIBasePath).Group("/members")
	members.POST("", h.CreateMember)
	members.GET("", h.ListMembers)
	members.GET("/:id", h.GetMember)
	members.PATCH("/:id", h.UpdateMember)
	members.DELETE("/:id", h.DeleteMember)
}

func newMemberService(db *gorm.DB, cfg config.Config) *services.MemberService {
	svc := services.NewMemberService(db, repo.MemberStore{})
	if cfg.MemberListLimit > 0 {
		svc.ListLimit = cfg.MemberListLimit
	}
	if cfg.IdempotencyTTL > 0 {
		svc.IdempotencyTTL = cfg.IdempotencyTTL
	}
	return svc
}

// replayLookup answers whether a live idempotency record exists.
func replayLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
		_, err := repo.GetIdempotency(ctx, db, scope, key, now)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, repo.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}

// corsChain returns the CORS handlers. gin-contrib/cors skips requests that
// carry no Origin, so a small handler in front pins Access-Control-Allow-Origin
// itself: "*" when no allowlist is configured, otherwise the request's origin
// when it is listed.
func corsChain(origins []string) gin.HandlersChain {
	cc := cors.Config{
		AllowMethods:  corsMethods,
		AllowHeaders:  corsAllowHeaders,
		ExposeHeaders: corsExposeHeaders,
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return gin.HandlersChain{
			func(c *gin.Context) {
				c.Header("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cc),
		}
	}

	cc.AllowOrigins = origins
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return gin.HandlersChain{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); allowed[origin] {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Add("Vary", "Origin")
			}
			c.Next()
		},
		cors.New(cc),
	}
}

// limitBody caps every request body at maxBytes (1 MiB when <= 0). Reading
// past the cap fails, and binding turns that into COMMON-002.
func limitBody(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix treats "" and "/" as the root group.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
