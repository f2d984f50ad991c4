package state

import (
	"context"
	"sync"

	"github.com/eduforge/agentkit/agent"
)

// InMemoryStore is a volatile snapshot store keeping the latest state per
// agent in a process-local map. Safe for concurrent access.
type InMemoryStore struct {
	mu     sync.RWMutex
	states map[string]agent.RuntimeState
}

// NewInMemoryStore constructs an empty in-memory snapshot store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]agent.RuntimeState)}
}

// Save overwrites the snapshot for the named agent.
func (s *InMemoryStore) Save(_ context.Context, agentName string, st agent.RuntimeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[agentName] = st
	return nil
}

// Load returns the latest snapshot for the named agent, if one exists.
func (s *InMemoryStore) Load(agentName string) (agent.RuntimeState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[agentName]
	return st, ok
}
