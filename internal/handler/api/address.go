// Package api serves the address REST contract consumed by the address
// client: list, create, update and remove under /address, scoped to the
// bearer token's subject.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/addressapi"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/events"
	"github.com/dukerupert/addressbook/internal/middleware"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// AddressHandler handles the /address endpoints.
type AddressHandler struct {
	store     *MemoryStore
	validator address.Validator
	publisher events.Publisher
	metrics   *telemetry.AddressMetrics
	logger    zerolog.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(
	store *MemoryStore,
	validator address.Validator,
	publisher events.Publisher,
	metrics *telemetry.AddressMetrics,
	logger zerolog.Logger,
) *AddressHandler {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &AddressHandler{
		store:     store,
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.With().Str("component", "address_handler").Logger(),
	}
}

// List handles GET /address
func (h *AddressHandler) List(c echo.Context) error {
	subject, err := h.subject(c)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, addressapi.ListBody{AddressList: h.store.List(subject)})
}

// Create handles POST /address
func (h *AddressHandler) Create(c echo.Context) error {
	subject, err := h.subject(c)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	candidate, err := h.bind(c, "address.create")
	if err != nil {
		return middleware.RespondError(c, err)
	}

	stored, list := h.store.Add(subject, candidate)
	h.afterWrite(c, events.KindCreated, subject, stored)

	return c.JSON(http.StatusCreated, addressapi.ListBody{AddressList: list})
}

// Update handles PUT /address/:id
//
// The path id wins over any id in the body.
func (h *AddressHandler) Update(c echo.Context) error {
	subject, err := h.subject(c)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	candidate, err := h.bind(c, "address.update")
	if err != nil {
		return middleware.RespondError(c, err)
	}
	candidate.ID = c.Param("id")

	list, err := h.store.Update(subject, candidate)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	h.afterWrite(c, events.KindUpdated, subject, candidate)

	return c.JSON(http.StatusOK, addressapi.ListBody{AddressList: list})
}

// Delete handles DELETE /address/:id
func (h *AddressHandler) Delete(c echo.Context) error {
	subject, err := h.subject(c)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	removed, list, err := h.store.Remove(subject, c.Param("id"))
	if err != nil {
		return middleware.RespondError(c, err)
	}
	h.afterWrite(c, events.KindRemoved, subject, removed)

	return c.JSON(http.StatusOK, addressapi.ListBody{AddressList: list})
}

func (h *AddressHandler) subject(c echo.Context) (string, error) {
	customer := middleware.GetCustomer(c)
	if customer == nil {
		return "", domain.Unauthorized("address.handler", "Please log in to manage your addresses.")
	}
	return customer.Subject, nil
}

// bind decodes the request body and runs the same validator the client
// form uses.
func (h *AddressHandler) bind(c echo.Context, op string) (address.Address, error) {
	var body addressapi.AddressBody
	if err := c.Bind(&body); err != nil {
		return address.Address{}, domain.Invalid(op, "Invalid request body")
	}

	if err := h.validator.Validate(body.Address); err != nil {
		if h.metrics != nil {
			h.metrics.ValidationFailures.WithLabelValues(domain.FieldOf(err)).Inc()
		}
		return address.Address{}, err
	}
	return body.Address, nil
}

// afterWrite publishes the change and refreshes the stored-address gauge.
// A publish failure is logged and never fails the request.
func (h *AddressHandler) afterWrite(c echo.Context, kind events.Kind, subject string, a address.Address) {
	ctx := c.Request().Context()

	if h.metrics != nil {
		h.metrics.StoredAddresses.Set(float64(h.store.Count()))
	}

	err := h.publisher.Publish(ctx, events.AddressEvent{
		Kind:    kind,
		Subject: subject,
		Address: a,
	})
	if err != nil {
		logger := middleware.GetLogger(c)
		logger.Warn().Err(err).Str("kind", string(kind)).Msg("address event not published")
	}
}
