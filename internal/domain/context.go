// Package domain provides the error taxonomy and context helpers shared by
// the address client, the checkout components and the reference service.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// customerContextKey stores the authenticated customer in context.
	customerContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Customer is the authenticated owner of an address book.
// Subject comes from the bearer token.
type Customer struct {
	Subject string
}

// NewContextWithCustomer returns a new context with the customer attached.
func NewContextWithCustomer(ctx context.Context, c *Customer) context.Context {
	return context.WithValue(ctx, customerContextKey, c)
}

// CustomerFromContext retrieves the customer from context.
// Returns nil if no customer is present.
func CustomerFromContext(ctx context.Context) *Customer {
	c, _ := ctx.Value(customerContextKey).(*Customer)
	return c
}

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
