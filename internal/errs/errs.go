package errs

import "errors" // Sentinel errors

// ErrFetchFailure is returned when reading the catalog, holdings or preferences fails.
// The previously loaded snapshot is kept.
var ErrFetchFailure = errors.New("fetch failure")

// ErrTokenNotFound is returned when a token id is absent from the catalog.
var ErrTokenNotFound = errors.New("token not found")

// ErrUnauthenticated is returned when no user identity is present.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrPersistenceWrite is returned when an upsert or delete fails.
var ErrPersistenceWrite = errors.New("persistence write failure")

// ErrInvalidPrice is returned when a token price is zero or negative.
var ErrInvalidPrice = errors.New("token price must be positive")

// ErrInvalidAmount is returned when a spend or holding amount is not positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInvalidCategory is returned for a category outside the known set.
var ErrInvalidCategory = errors.New("invalid category")

// ErrInvalidDirection is returned for a swipe direction other than left or right.
var ErrInvalidDirection = errors.New("invalid swipe direction")

// ErrInvalidPreference is returned for a preference kind other than like or dislike.
var ErrInvalidPreference = errors.New("invalid preference kind")

// ErrFeedExhausted is returned by a swipe when no token is left in the feed.
var ErrFeedExhausted = errors.New("no more tokens to swipe")

// ErrNotFound is returned when a stored row does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a unique key, such as a user email, is taken.
var ErrAlreadyExists = errors.New("already exists")
