// Package feed derives the swipe feed from a catalog and a user's preferences.
package feed

import "token_swipe/internal/domain" // Domain models

// Generate returns the catalog tokens still eligible for swiping, in catalog order.
// A nil category keeps every category. Any token in liked or disliked is dropped.
func Generate(catalog []domain.Token, category *domain.Category, liked, disliked domain.IDSet) []domain.Token {
	out := make([]domain.Token, 0, len(catalog))
	for _, t := range catalog {
		if category != nil && t.Category != *category {
			continue // Other category
		}
		if liked.Has(t.ID) || disliked.Has(t.ID) {
			continue // Already judged
		}
		out = append(out, t)
	}
	return out
}

// Cursor counts resolved swipes. It only moves forward.
type Cursor struct {
	position int
}

// NewCursor starts a cursor at position; negative values start at zero.
func NewCursor(position int) Cursor {
	if position < 0 {
		position = 0
	}
	return Cursor{position: position}
}

// Position is the number of swipes resolved so far.
func (c Cursor) Position() int { return c.position }

// Advance moves the cursor one swipe forward and returns the new position.
func (c *Cursor) Advance() int {
	c.position++
	return c.position
}
