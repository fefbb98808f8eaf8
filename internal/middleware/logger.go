package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/domain"
)

const loggerKey = "logger"

// WithRequestLogger stores a request-scoped logger carrying method, path and
// request id, and logs each completed request. Place it after RequestID.
func WithRequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			lc := base.With().
				Str("method", req.Method).
				Str("path", req.URL.Path)
			if requestID := domain.RequestIDFromContext(req.Context()); requestID != "" {
				lc = lc.Str("request_id", requestID)
			}
			logger := lc.Logger()
			c.Set(loggerKey, logger)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info().
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("request completed")
			return nil
		}
	}
}

// GetLogger retrieves the request-scoped logger, or a disabled logger if
// none was stored.
func GetLogger(c echo.Context) zerolog.Logger {
	if logger, ok := c.Get(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
