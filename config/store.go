package config

import (
	"fmt"
	"sort"
	"sync"
)

// ErrProfileNotFound is returned when a named profile does not exist in the
// underlying store.
var ErrProfileNotFound = fmt.Errorf("agent profile not found")

// Store is the administrative CRUD surface for agent profiles. Implementations
// must return deep copies; mutating a returned profile never affects the store.
type Store interface {
	Get(name string) (AgentProfile, error)
	Put(profile AgentProfile) error
	Delete(name string) error
	List() ([]AgentProfile, error)
}

// InMemoryStore is a volatile Store keeping profiles in a process-local map.
// Safe for concurrent access; suited for tests and single-process deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]AgentProfile
}

// NewInMemoryStore constructs an empty in-memory profile store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]AgentProfile)}
}

// Get returns a copy of the named profile or ErrProfileNotFound.
func (s *InMemoryStore) Get(name string) (AgentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return AgentProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p.Clone(), nil
}

// Put normalizes, validates and stores a copy of the profile, overwriting any
// existing profile with the same name.
func (s *InMemoryStore) Put(profile AgentProfile) error {
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Name] = profile.Clone()
	return nil
}

// Delete removes the named profile. Deleting a missing profile is an error so
// admin tooling can surface typos.
func (s *InMemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	delete(s.profiles, name)
	return nil
}

// List returns copies of all profiles sorted by name for stable display.
func (s *InMemoryStore) List() ([]AgentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AgentProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
