// Package apiv1 exposes the resolution service over HTTP. The API is plain
// request framing: callers post the declarative JSON form of abstract
// values, the handler anchors them to the requested reference time and
// returns the concrete outputs.
package apiv1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/timewalk/internal/profile"
	"github.com/hrygo/timewalk/server/middleware"
	"github.com/hrygo/timewalk/server/service/resolution"
	"github.com/hrygo/timewalk/store"
)

// APIV1Service wires the v1 HTTP routes.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	service *resolution.Service
	logger  *slog.Logger
	limiter *middleware.RateLimiter
}

// NewAPIV1Service creates the v1 API service. Store may be nil when auditing
// is disabled.
func NewAPIV1Service(profile *profile.Profile, st *store.Store, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		Profile: profile,
		Store:   st,
		service: resolution.NewService(resolution.Options{
			Store:       st,
			Logger:      logger,
			MaxParallel: profile.MaxParallel,
		}),
		logger:  logger,
		limiter: middleware.NewRateLimiter(profile.RateLimitRPS),
	}
}

// Register mounts the routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	e.GET("/healthz", s.healthz)

	group := e.Group("/api/v1", s.requestID, s.rateLimit)
	group.POST("/resolve", s.resolveBatch)
	group.GET("/stats", s.stats)
}

func (s *APIV1Service) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// requestID assigns a short request ID and logs the request.
func (s *APIV1Service) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(echo.HeaderXRequestID)
		if id == "" {
			id = shortuuid.New()
		}
		c.Response().Header().Set(echo.HeaderXRequestID, id)
		c.Set("request_id", id)

		err := next(c)
		s.logger.Info("api request",
			slog.String("request_id", id),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().Status))
		return err
	}
}

// rateLimit rejects clients exceeding the configured per-IP budget.
func (s *APIV1Service) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.limiter.Allow(c.RealIP()) {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}
