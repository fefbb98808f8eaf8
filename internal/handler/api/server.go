package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/events"
	"github.com/dukerupert/addressbook/internal/middleware"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// ServerDeps holds the collaborators of the reference address service.
type ServerDeps struct {
	Store     *MemoryStore
	Validator address.Validator
	Publisher events.Publisher
	Issuer    *auth.Issuer
	Metrics   *telemetry.AddressMetrics
	Gatherer  prometheus.Gatherer
	Logger    zerolog.Logger

	// Limiter throttles /address per subject. Optional; the caller owns
	// its lifetime.
	Limiter *middleware.RateLimiter

	// DevTokens routes POST /auth/token.
	DevTokens bool
}

const maxBodySize = "64K"

// NewServer builds the echo instance with every route registered.
func NewServer(deps ServerDeps) *echo.Echo {
	if deps.Store == nil {
		deps.Store = NewMemoryStore()
	}
	if deps.Validator == nil {
		deps.Validator = address.NewBasicValidator()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit(maxBodySize))
	e.Use(middleware.RequestID())
	e.Use(middleware.WithRequestLogger(deps.Logger))
	if deps.Metrics != nil {
		e.Use(middleware.Metrics(deps.Metrics))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	if deps.DevTokens {
		e.POST("/auth/token", NewTokenHandler(deps.Issuer).Issue)
	}

	h := NewAddressHandler(deps.Store, deps.Validator, deps.Publisher, deps.Metrics, deps.Logger)
	g := e.Group("/address", middleware.RequireBearer(deps.Issuer))
	if deps.Limiter != nil {
		g.Use(deps.Limiter.Middleware())
	}
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	return e
}
