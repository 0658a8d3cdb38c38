package dbexec

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrQueryNotFound indicates a stored query reference that does not exist.
var ErrQueryNotFound = errors.New("stored query not found")

// MemoryQueryStore keeps stored query SQL in memory. Dashboard and query
// persistence live outside this core; this store backs tests and deployments
// where saved queries are loaded at boot.
type MemoryQueryStore struct {
	mu      sync.RWMutex
	queries map[string]string
}

// NewMemoryQueryStore creates an empty in-memory store.
func NewMemoryQueryStore() *MemoryQueryStore {
	return &MemoryQueryStore{queries: make(map[string]string)}
}

// Put registers or replaces a stored query.
func (s *MemoryQueryStore) Put(queryID, sqlText string) {
	s.mu.Lock()
	s.queries[queryID] = sqlText
	s.mu.Unlock()
}

// QuerySQL resolves a stored query reference to its SQL text.
func (s *MemoryQueryStore) QuerySQL(ctx context.Context, queryID string) (string, error) {
	s.mu.RLock()
	sqlText, ok := s.queries[queryID]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrQueryNotFound, queryID)
	}
	return sqlText, nil
}
