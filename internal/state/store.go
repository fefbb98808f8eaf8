// Package state holds the session-level address state shared by the
// checkout components. All mutation goes through Dispatch and the pure
// Reduce function.
package state

import (
	"slices"
	"sync"

	"github.com/dukerupert/addressbook/internal/address"
)

// OrderDetails records choices made for the order being checked out.
type OrderDetails struct {
	OrderAddress *address.Address
}

// State is the shared address state.
type State struct {
	Addresses    address.List
	OrderDetails OrderDetails
}

func (s State) clone() State {
	out := State{Addresses: s.Addresses.Clone()}
	if s.OrderDetails.OrderAddress != nil {
		a := *s.OrderDetails.OrderAddress
		out.OrderDetails.OrderAddress = &a
	}
	return out
}

// Action is the closed set of state changes. Only this package defines
// implementations.
type Action interface {
	Type() string
	isAction()
}

// SetAddress replaces the address list wholesale.
type SetAddress struct {
	Addresses address.List
}

func (SetAddress) Type() string { return "SET_ADDRESS" }
func (SetAddress) isAction()    {}

// SetOrder records the address selected for the current order.
type SetOrder struct {
	OrderAddress address.Address
}

func (SetOrder) Type() string { return "SET_ORDER" }
func (SetOrder) isAction()    {}

// Reduce applies an action to a state and returns the new state.
// The input is not modified.
func Reduce(s State, a Action) State {
	next := s.clone()
	switch act := a.(type) {
	case SetAddress:
		next.Addresses = act.Addresses.Clone()
		if next.Addresses == nil {
			next.Addresses = address.List{}
		}
	case SetOrder:
		selected := act.OrderAddress
		next.OrderDetails.OrderAddress = &selected
	}
	return next
}

// Store is the state container injected into the checkout components.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []func(State)
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial.clone()}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Addresses returns a copy of the current address list.
func (s *Store) Addresses() address.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Addresses.Clone()
}

// Dispatch reduces the action into the store and notifies listeners with
// the resulting state.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.clone()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.clone())
	}
}

// Subscribe registers fn to be called after every dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Dispatcher is the write side of a Store.
type Dispatcher interface {
	Dispatch(a Action)
}
