package cache

import (
	"context" // Context for Redis operations
	"errors"  // Redis nil detection

	"github.com/google/uuid"       // User identifiers
	"github.com/redis/go-redis/v9" // Redis client
)

// CursorStore keeps swipe cursors in Redis, one integer key per user
type CursorStore struct {
	rdb *redis.Client
}

// NewCursorStore creates a cursor store on rdb
func NewCursorStore(rdb *redis.Client) *CursorStore {
	return &CursorStore{rdb: rdb}
}

// LoadCursor returns the saved position, zero when none
func (s *CursorStore) LoadCursor(ctx context.Context, userID uuid.UUID) (int, error) {
	position, err := s.rdb.Get(ctx, CursorKey(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil // No cursor yet
	}
	return position, err
}

// SaveCursor stores position unless a larger one is already saved, so the
// persisted cursor never moves backwards
func (s *CursorStore) SaveCursor(ctx context.Context, userID uuid.UUID, position int) error {
	key := CursorKey(userID)
	return s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current >= position {
			return nil // Already at or past this position
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, position, 0)
			return nil
		})
		return err
	}, key)
}
