// Package identity adapts the external identity provider to the ledger.
package identity

import (
	"context" // Context for store calls
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"sync"    // Cached identity locking

	"github.com/google/uuid" // User identifiers

	"token_swipe/internal/domain" // Domain models
	"token_swipe/internal/errs"   // Error taxonomy
	"token_swipe/internal/store"  // Persistence contracts
)

// Provider answers "who is acting". It returns errs.ErrUnauthenticated when nobody is.
type Provider interface {
	CurrentUser(ctx context.Context) (domain.Identity, error)
}

// Observer is notified when the signed-in user changes; nil means signed out.
type Observer func(ctx context.Context, user *domain.Identity) error

// Static is an in-process provider whose user is pushed by sign-in and sign-out
// events, with observers called synchronously on each change.
type Static struct {
	mu        sync.RWMutex
	user      *domain.Identity // Nil when signed out
	observers map[int]Observer // Registered observers by handle
	nextID    int              // Next observer handle
}

// NewStatic creates a provider with no signed-in user.
func NewStatic() *Static {
	return &Static{observers: make(map[int]Observer)}
}

// CurrentUser returns the signed-in user.
func (s *Static) CurrentUser(_ context.Context) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.Identity{}, errs.ErrUnauthenticated
	}
	return *s.user, nil
}

// Subscribe registers o and returns a function removing it.
func (s *Static) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// SignIn sets the current user and notifies observers.
func (s *Static) SignIn(ctx context.Context, user domain.Identity) error {
	return s.set(ctx, &user)
}

// SignOut clears the current user and notifies observers.
func (s *Static) SignOut(ctx context.Context) error {
	return s.set(ctx, nil)
}

func (s *Static) set(ctx context.Context, user *domain.Identity) error {
	s.mu.Lock()
	s.user = user
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	var errList []error
	for _, o := range observers {
		if err := o(ctx, user); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// ProfileProvider resolves an authenticated user id (from a bearer token)
// to the user's profile, so DefaultBuyAmount is always read fresh.
type ProfileProvider struct {
	Profiles store.ProfileStore // Profile lookup
	UserID   uuid.UUID          // Authenticated user id
}

// CurrentUser loads the profile of UserID. A zero id or a missing profile is unauthenticated.
func (p ProfileProvider) CurrentUser(ctx context.Context) (domain.Identity, error) {
	if p.UserID == uuid.Nil {
		return domain.Identity{}, errs.ErrUnauthenticated
	}
	user, err := p.Profiles.GetUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("user %s: %w", p.UserID, errs.ErrUnauthenticated)
		}
		return domain.Identity{}, fmt.Errorf("load profile: %w: %w", errs.ErrFetchFailure, err)
	}
	return user.Identity(), nil
}
