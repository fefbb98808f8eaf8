// Package middleware holds the echo middleware of the reference address
// service and its shared error response helpers.
package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/addressbook/internal/addressapi"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// ============================================================================
// ERROR RESPONSE HELPERS
// ============================================================================

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as an addressapi.ErrorBody with the status its
// code maps to, and logs it on the request logger. Server errors are also
// sent to Sentry.
func RespondError(c echo.Context, err error) error {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := GetLogger(c)
	event := logger.Info()
	if status >= 500 {
		event = logger.Error()
		telemetry.CaptureError(err, map[string]interface{}{
			"code":       code,
			"route":      c.Path(),
			"method":     c.Request().Method,
			"request_id": domain.RequestIDFromContext(c.Request().Context()),
		})
	}
	event.Err(err).Str("code", code).Int("status", status).Msg("request failed")

	return c.JSON(status, addressapi.ErrorBody{
		Error:   code,
		Message: domain.ErrorMessage(err),
	})
}

// HTTPErrorHandler renders errors that escape handlers, including echo's
// own routing errors, in the service's error body shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := domain.EINTERNAL
		switch he.Code {
		case http.StatusNotFound:
			code = domain.ENOTFOUND
		case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusRequestEntityTooLarge:
			code = domain.EINVALID
		case http.StatusUnauthorized:
			code = domain.EUNAUTHORIZED
		case http.StatusTooManyRequests:
			code = domain.ERATELIMIT
		}
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, addressapi.ErrorBody{Error: code, Message: msg})
		return
	}

	_ = RespondError(c, err)
}
