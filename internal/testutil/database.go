// Package testutil provides shared fixtures for tests that need a real cache
// store or a fake dictionary service.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/petit-bac/internal/storage"
)

// Pair is a confirmed (word, category) seed.
type Pair struct {
	Word     string
	Category string
}

// TestDB wraps a migrated SQLite store in a per-test directory.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated database seeded with pairs. The store is
// closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.Pair{Word: "chat", Category: "animal"})
func SetupTestDB(t *testing.T, pairs ...Pair) *TestDB {
	t.Helper()

	store, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "bac.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	db := &TestDB{Storage: store, t: t}
	db.Seed(pairs...)
	return db
}

// Seed inserts pairs or fails the test.
func (db *TestDB) Seed(pairs ...Pair) {
	db.t.Helper()
	ctx := context.Background()
	for _, p := range pairs {
		if err := db.Storage.InsertIfAbsent(ctx, p.Word, p.Category); err != nil {
			db.t.Fatalf("failed to seed %s/%s: %v", p.Category, p.Word, err)
		}
	}
}

// MustExist fails the test unless the pair is cached.
func (db *TestDB) MustExist(word, category string) {
	db.t.Helper()
	ok, err := db.Storage.Exists(context.Background(), word, category)
	if err != nil {
		db.t.Fatalf("failed to look up %s/%s: %v", category, word, err)
	}
	if !ok {
		db.t.Fatalf("expected %s/%s to be cached", category, word)
	}
}
