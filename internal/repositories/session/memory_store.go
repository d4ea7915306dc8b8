package session

import (
	"context"
	"sync"

	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
)

// MemoryStore is an in-process session currency store. It stands in for an
// external session backend in single-instance deployments and in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	currencies map[string]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		currencies: make(map[string]string),
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencySessionStore = (*MemoryStore)(nil)

// GetSessionCurrency returns the stored currency code for a session, or ""
// when none is set.
func (s *MemoryStore) GetSessionCurrency(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currencies[sessionID], nil
}

// SetSessionCurrency stores a currency code for a session.
func (s *MemoryStore) SetSessionCurrency(_ context.Context, sessionID, currencyCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[sessionID] = currencyCode
	return nil
}

// ClearSessionCurrency removes the stored currency code for a session.
func (s *MemoryStore) ClearSessionCurrency(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.currencies, sessionID)
	return nil
}
