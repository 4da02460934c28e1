package services

import (
	"context"
	"time"
)

// Store is the slice of the Redis client the services need for mirroring
// session state. Every mutation writes through; session load happens on first
// touch.
type Store interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}
