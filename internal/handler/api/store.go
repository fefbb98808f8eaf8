package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/domain"
)

// MemoryStore keeps one address book per token subject in memory.
// Every method returns copies; insertion order is preserved.
type MemoryStore struct {
	mu    sync.RWMutex
	books map[string]address.List
	newID func() string
}

// NewMemoryStore creates an empty store that assigns UUID ids.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books: make(map[string]address.List),
		newID: func() string { return uuid.New().String() },
	}
}

// List returns subject's addresses. The result is never nil.
func (s *MemoryStore) List(subject string) address.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(subject)
}

// Add stores a with a fresh id, ignoring any id it carried.
func (s *MemoryStore) Add(subject string, a address.Address) (address.Address, address.List) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.newID()
	s.books[subject] = append(s.books[subject], a)
	return a, s.listLocked(subject)
}

// Update replaces the address with a.ID in place.
func (s *MemoryStore) Update(subject string, a address.Address) (address.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.books[subject]
	for i := range book {
		if book[i].ID == a.ID {
			book[i] = a
			return s.listLocked(subject), nil
		}
	}
	return nil, domain.NotFound("address.update", "address", a.ID)
}

// Remove deletes the address with id and returns it.
func (s *MemoryStore) Remove(subject, id string) (address.Address, address.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.books[subject]
	for i := range book {
		if book[i].ID == id {
			removed := book[i]
			s.books[subject] = append(book[:i:i], book[i+1:]...)
			return removed, s.listLocked(subject), nil
		}
	}
	return address.Address{}, nil, domain.NotFound("address.remove", "address", id)
}

// Count returns the number of addresses across every book.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, book := range s.books {
		n += len(book)
	}
	return n
}

func (s *MemoryStore) listLocked(subject string) address.List {
	out := s.books[subject].Clone()
	if out == nil {
		out = address.List{}
	}
	return out
}
