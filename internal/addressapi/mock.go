package addressapi

import (
	"context"
	"errors"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/auth"
)

// MockService is a test implementation of Service.
// Unset funcs return an error so tests notice unexpected calls.
type MockService struct {
	ListFunc   func(ctx context.Context, token auth.Token) (*Response, error)
	AddFunc    func(ctx context.Context, addr address.Address, token auth.Token) (*Response, error)
	UpdateFunc func(ctx context.Context, addr address.Address, token auth.Token) (*Response, error)
	RemoveFunc func(ctx context.Context, id string, token auth.Token) (*Response, error)

	Calls int
}

var errNotConfigured = errors.New("mock address service: call not configured")

// List delegates to ListFunc.
func (m *MockService) List(ctx context.Context, token auth.Token) (*Response, error) {
	m.Calls++
	if m.ListFunc == nil {
		return nil, errNotConfigured
	}
	return m.ListFunc(ctx, token)
}

// Add delegates to AddFunc.
func (m *MockService) Add(ctx context.Context, addr address.Address, token auth.Token) (*Response, error) {
	m.Calls++
	if m.AddFunc == nil {
		return nil, errNotConfigured
	}
	return m.AddFunc(ctx, addr, token)
}

// Update delegates to UpdateFunc.
func (m *MockService) Update(ctx context.Context, addr address.Address, token auth.Token) (*Response, error) {
	m.Calls++
	if m.UpdateFunc == nil {
		return nil, errNotConfigured
	}
	return m.UpdateFunc(ctx, addr, token)
}

// Remove delegates to RemoveFunc.
func (m *MockService) Remove(ctx context.Context, id string, token auth.Token) (*Response, error) {
	m.Calls++
	if m.RemoveFunc == nil {
		return nil, errNotConfigured
	}
	return m.RemoveFunc(ctx, id, token)
}
