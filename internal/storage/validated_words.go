package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/petit-bac/internal/model"
)

// Exists reports whether the (word, category) pair has been confirmed before.
func (s *SQLiteStorage) Exists(ctx context.Context, word, category string) (bool, error) {
	if err := validatePair(ctx, word, category); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM validated_words WHERE word = ? AND category = ?)
	`, word, category).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up validated word: %w", err)
	}
	return exists, nil
}

// InsertIfAbsent records a confirmed pair. Inserting a pair that is already
// present is a no-op, including when two callers race on the same pair.
func (s *SQLiteStorage) InsertIfAbsent(ctx context.Context, word, category string) error {
	if err := validatePair(ctx, word, category); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO validated_words (word, category, validated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(word, category) DO NOTHING
	`, word, category, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save validated word: %w", err)
	}
	return nil
}

// Count returns the total number of cached pairs.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM validated_words`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count validated words: %w", err)
	}
	return count, nil
}

// CountByCategory returns the number of cached pairs per category key.
func (s *SQLiteStorage) CountByCategory(ctx context.Context) (map[string]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM validated_words
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count validated words: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// List returns cached pairs, newest first. An empty category lists every
// category; limit <= 0 means no limit.
func (s *SQLiteStorage) List(ctx context.Context, category string, limit int) ([]model.CacheEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT word, category, validated_at
		FROM validated_words
		WHERE ? = '' OR category = ?
		ORDER BY validated_at DESC, id DESC
		LIMIT ?
	`, category, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query validated words: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.CacheEntry
	for rows.Next() {
		var entry model.CacheEntry
		if err := rows.Scan(&entry.Word, &entry.Category, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan validated word: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes every cached pair and returns how many were deleted.
func (s *SQLiteStorage) Clear(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM validated_words`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear validated words: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return deleted, nil
}
