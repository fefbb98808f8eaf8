// Package addressapi is the transport to the remote address service.
//
// It knows the REST contract (paths, verbs, bodies, bearer header) and
// nothing about what a status code means for the caller: every response,
// successful or not, is returned as a Response. Only transport failures and
// unreadable success bodies are errors.
package addressapi

import (
	"context"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/auth"
)

// Service defines the calls the address service accepts.
type Service interface {
	// List returns the caller's stored addresses.
	List(ctx context.Context, token auth.Token) (*Response, error)

	// Add stores a new address. The service acknowledges with 201.
	Add(ctx context.Context, addr address.Address, token auth.Token) (*Response, error)

	// Update replaces an existing address identified by addr.ID.
	Update(ctx context.Context, addr address.Address, token auth.Token) (*Response, error)

	// Remove deletes the address with the given id.
	Remove(ctx context.Context, id string, token auth.Token) (*Response, error)
}

// Response is the service's answer to a single call.
type Response struct {
	StatusCode int
	Addresses  address.List

	// Message is the service's error text on non-2xx responses, if any.
	Message string
}

// ListBody is the wire shape of every success body.
type ListBody struct {
	AddressList address.List `json:"addressList"`
}

// AddressBody is the wire shape of create and update requests.
type AddressBody struct {
	Address address.Address `json:"address"`
}

// ErrorBody is the wire shape of failure bodies.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
