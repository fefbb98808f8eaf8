package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/addressbook/internal/addressapi"
	"github.com/dukerupert/addressbook/internal/domain"
)

// RequestIDHeader is the header name for request ID
const RequestIDHeader = addressapi.RequestIDHeader

// RequestID generates a unique request ID for each request.
// If the request already has an X-Request-ID header, it uses that value.
// The request ID is added to the response headers and request context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			// Check for existing request ID (from load balancer, the address client, etc.)
			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Response().Header().Set(RequestIDHeader, requestID)
			c.SetRequest(req.WithContext(domain.NewContextWithRequestID(req.Context(), requestID)))
			return next(c)
		}
	}
}
