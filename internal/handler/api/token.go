package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/middleware"
)

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	Subject string `json:"subject"`
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	Token   string `json:"token"`
	Subject string `json:"subject"`
}

// TokenHandler issues tokens for local development. It is only routed when
// dev tokens are enabled.
type TokenHandler struct {
	issuer *auth.Issuer
}

func NewTokenHandler(issuer *auth.Issuer) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

// Issue handles POST /auth/token. An empty subject gets a random one.
func (h *TokenHandler) Issue(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return middleware.RespondError(c, domain.Invalid("auth.token", "Invalid request body"))
	}
	if req.Subject == "" {
		req.Subject = uuid.New().String()
	}

	token, err := h.issuer.Issue(req.Subject)
	if err != nil {
		return middleware.RespondError(c, domain.Internal(err, "auth.token", "failed to issue token"))
	}

	return c.JSON(http.StatusCreated, TokenResponse{Token: string(token), Subject: req.Subject})
}
