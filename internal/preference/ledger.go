// Package preference records which tokens a user has already judged.
package preference

import (
	"context" // Context for store calls
	"fmt"     // Error wrapping

	"github.com/google/uuid" // User identifiers

	"token_swipe/internal/domain" // Domain models
	"token_swipe/internal/errs"   // Error taxonomy
)

// Reader loads a user's preference rows.
type Reader interface {
	FetchPreferences(ctx context.Context, userID uuid.UUID) ([]domain.Preference, error)
}

// Writer upserts a preference row.
type Writer interface {
	UpsertPreference(ctx context.Context, userID uuid.UUID, tokenID string, kind domain.PreferenceKind) error
}

// ReadWriter is the persistence the ledger needs.
type ReadWriter interface {
	Reader
	Writer
}

// Sets splits a user's preferences by kind. A token id is in at most one set.
type Sets struct {
	Liked    domain.IDSet // Swiped right
	Disliked domain.IDSet // Swiped left
}

// Judged reports whether the token carries any preference.
func (s Sets) Judged(tokenID string) bool {
	return s.Liked.Has(tokenID) || s.Disliked.Has(tokenID)
}

// Ledger reads and writes user preferences.
type Ledger struct {
	rw ReadWriter
}

// NewLedger creates a ledger on top of rw.
func NewLedger(rw ReadWriter) *Ledger {
	return &Ledger{rw: rw}
}

// Load returns the liked and disliked token sets of a user.
// Rows with an unknown kind are skipped.
func (l *Ledger) Load(ctx context.Context, userID uuid.UUID) (Sets, error) {
	rows, err := l.rw.FetchPreferences(ctx, userID)
	if err != nil {
		return Sets{}, fmt.Errorf("load preferences: %w: %w", errs.ErrFetchFailure, err)
	}
	return Split(rows), nil
}

// Split builds the sets from rows. A later row for the same token wins.
func Split(rows []domain.Preference) Sets {
	sets := Sets{Liked: domain.NewIDSet(), Disliked: domain.NewIDSet()}
	for _, row := range rows {
		switch row.Kind {
		case domain.Liked:
			sets.Liked.Add(row.TokenID)
			sets.Disliked.Remove(row.TokenID) // Keep the sets disjoint
		case domain.Disliked:
			sets.Disliked.Add(row.TokenID)
			sets.Liked.Remove(row.TokenID)
		}
	}
	return sets
}

// SetPreference upserts the (user, token) kind, overwriting any earlier kind.
func (l *Ledger) SetPreference(ctx context.Context, userID uuid.UUID, tokenID string, kind domain.PreferenceKind) error {
	if _, err := domain.ParsePreferenceKind(string(kind)); err != nil {
		return err
	}
	if err := l.rw.UpsertPreference(ctx, userID, tokenID, kind); err != nil {
		return fmt.Errorf("set %s preference on %s: %w: %w", kind, tokenID, errs.ErrPersistenceWrite, err)
	}
	return nil
}
