package core

import (
	"context"
	"time"
)

// Cache keys for read-through cached lists. Mutating services must
// invalidate these explicitly.
const (
	CacheKeyQuestions = "questions"
	CacheKeyCareers   = "careers"
)

// Cache is a read-through cache collaborator. Get unmarshals the cached
// entry into dest and reports whether the key was present.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
