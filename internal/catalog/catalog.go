// Package catalog holds the current token snapshot.
package catalog

import (
	"context" // Context for store calls
	"fmt"     // Error wrapping
	"sync"    // Snapshot locking

	"token_swipe/internal/domain" // Domain models
	"token_swipe/internal/errs"   // Error taxonomy
)

// Source is where catalog snapshots come from.
type Source interface {
	FetchTokens(ctx context.Context) ([]domain.Token, error)
}

// Store keeps the last successfully loaded catalog and an id index over it.
type Store struct {
	source Source // Where snapshots come from

	mu     sync.RWMutex
	tokens []domain.Token          // Last good snapshot, source order
	byID   map[string]domain.Token // Index over tokens
}

// New creates an empty store reading from source.
func New(source Source) *Store {
	return &Store{
		source: source,
		byID:   make(map[string]domain.Token),
	}
}

// Load fetches a fresh snapshot. On failure the previous snapshot is kept
// and the error wraps errs.ErrFetchFailure.
func (s *Store) Load(ctx context.Context) ([]domain.Token, error) {
	tokens, err := s.source.FetchTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w: %w", errs.ErrFetchFailure, err) // Old snapshot stays
	}

	byID := make(map[string]domain.Token, len(tokens))
	for _, t := range tokens {
		byID[t.ID] = t
	}

	s.mu.Lock() // Swap snapshot and index together
	s.tokens = tokens
	s.byID = byID
	s.mu.Unlock()

	return s.Snapshot(), nil
}

// Snapshot returns a copy of the current catalog in source order.
func (s *Store) Snapshot() []domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// GetByID looks a token up in the current snapshot.
func (s *Store) GetByID(id string) (domain.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	return t, ok
}

// Len returns the number of tokens in the snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
