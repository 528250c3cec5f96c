// Package service defines the caller-facing validation API and the
// contracts it needs from the persistence layer.
package service

import (
	"context"

	"github.com/Veraticus/petit-bac/internal/model"
)

// Store defines the contract for the persistent cache of confirmed pairs.
type Store interface {
	// Exists reports whether the pair has been confirmed before.
	Exists(ctx context.Context, word, category string) (bool, error)
	// InsertIfAbsent records a confirmed pair. Duplicate inserts are no-ops.
	InsertIfAbsent(ctx context.Context, word, category string) error
}

// CacheAdmin is implemented by stores that support inspection and cleanup.
type CacheAdmin interface {
	Store
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, category string, limit int) ([]model.CacheEntry, error)
	Clear(ctx context.Context) (int64, error)
	Close() error
}
