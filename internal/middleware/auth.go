package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/domain"
)

// TokenVerifier returns the subject a bearer token was issued to.
type TokenVerifier interface {
	Verify(t auth.Token) (string, error)
}

// RequireBearer rejects requests without a valid bearer token with 401 and
// attaches the token's subject to the request context as the customer.
func RequireBearer(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := auth.BearerFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return RespondError(c, domain.Unauthorized("auth.bearer", "Missing bearer token"))
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				logger := GetLogger(c)
				logger.Debug().Err(err).Msg("token rejected")
				return RespondError(c, domain.Unauthorized("auth.bearer", "Invalid or expired token"))
			}

			req := c.Request()
			ctx := domain.NewContextWithCustomer(req.Context(), &domain.Customer{Subject: subject})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// GetCustomer returns the authenticated customer, or nil.
func GetCustomer(c echo.Context) *domain.Customer {
	return domain.CustomerFromContext(c.Request().Context())
}
