package policy

import (
	"sync/atomic"

	"sqlgate/internal/domain"
)

// Store holds the active policy and supports atomic replacement, so a policy
// reload never tears a decision that is already in flight.
type Store struct {
	current atomic.Pointer[domain.Policy]
}

// NewStore creates a store seeded with the given policy. The policy must
// already be normalized and validated.
func NewStore(p *domain.Policy) *Store {
	s := &Store{}
	s.current.Store(p)
	return s
}

// Current returns the active policy snapshot. Callers must treat it as
// read-only.
func (s *Store) Current() *domain.Policy {
	return s.current.Load()
}

// Replace swaps in a new policy after normalizing and validating it. The old
// policy stays active if the new one is invalid.
func (s *Store) Replace(p *domain.Policy) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	s.current.Store(p)
	return nil
}
