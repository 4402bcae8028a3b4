package tokenstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps tokens in process memory. Suitable for tests and
// single-process deployments that can re-authorize after a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]*Tokens
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]*Tokens),
	}
}

func (s *MemoryStore) Save(_ context.Context, realmID string, tokens *Tokens) error {
	copied := *tokens
	if copied.UpdatedAt.IsZero() {
		copied.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[realmID] = &copied
	return nil
}

func (s *MemoryStore) Get(_ context.Context, realmID string) (*Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.tokens[realmID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, realmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, realmID)
	return nil
}
