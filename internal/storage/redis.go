package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

// DefaultRedisPrefix namespaces every key the Redis store writes.
const DefaultRedisPrefix = "bac:validated:"

// RedisStorage keeps confirmed pairs in one Redis hash per category
// (field = word, value = RFC 3339 timestamp). HSETNX gives insert-or-ignore
// semantics across every process sharing the instance.
type RedisStorage struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStorage wraps an existing client.
func NewRedisStorage(rdb *redis.Client, prefix string) (*RedisStorage, error) {
	if rdb == nil {
		return nil, ErrNilClient
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStorage{rdb: rdb, prefix: prefix}, nil
}

// OpenRedis connects to the Redis server at url and waits for it to answer.
func OpenRedis(ctx context.Context, url, prefix string) (*RedisStorage, error) {
	if err := validateString(url, "url"); err != nil {
		return nil, err
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	err = common.WithRetry(ctx, func() error {
		return rdb.Ping(ctx).Err()
	}, common.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return NewRedisStorage(rdb, prefix)
}

func (s *RedisStorage) key(category string) string {
	return s.prefix + category
}

// Exists reports whether the (word, category) pair has been confirmed before.
func (s *RedisStorage) Exists(ctx context.Context, word, category string) (bool, error) {
	if err := validatePair(ctx, word, category); err != nil {
		return false, err
	}

	ok, err := s.rdb.HExists(ctx, s.key(category), word).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up validated word: %w", err)
	}
	return ok, nil
}

// InsertIfAbsent records a confirmed pair unless it is already present.
func (s *RedisStorage) InsertIfAbsent(ctx context.Context, word, category string) error {
	if err := validatePair(ctx, word, category); err != nil {
		return err
	}

	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.rdb.HSetNX(ctx, s.key(category), word, stamp).Err(); err != nil {
		return fmt.Errorf("failed to save validated word: %w", err)
	}
	return nil
}

func (s *RedisStorage) categoryKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan redis keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Count returns the total number of cached pairs.
func (s *RedisStorage) Count(ctx context.Context) (int, error) {
	counts, err := s.CountByCategory(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// CountByCategory returns the number of cached pairs per category key.
func (s *RedisStorage) CountByCategory(ctx context.Context) (map[string]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	keys, err := s.categoryKeys(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(keys))
	for _, key := range keys {
		n, err := s.rdb.HLen(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", key, err)
		}
		counts[strings.TrimPrefix(key, s.prefix)] = int(n)
	}
	return counts, nil
}

// List returns cached pairs, newest first. An empty category lists every
// category; limit <= 0 means no limit.
func (s *RedisStorage) List(ctx context.Context, category string, limit int) ([]model.CacheEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	keys := []string{s.key(category)}
	if category == "" {
		var err error
		if keys, err = s.categoryKeys(ctx); err != nil {
			return nil, err
		}
	}

	var entries []model.CacheEntry
	for _, key := range keys {
		fields, err := s.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		cat := strings.TrimPrefix(key, s.prefix)
		for word, stamp := range fields {
			recordedAt, _ := time.Parse(time.RFC3339Nano, stamp)
			entries = append(entries, model.CacheEntry{Word: word, Category: cat, RecordedAt: recordedAt})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
			return entries[i].Word < entries[j].Word
		}
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Clear removes every cached pair and returns how many were deleted.
func (s *RedisStorage) Clear(ctx context.Context) (int64, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	keys, err := s.categoryKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to clear validated words: %w", err)
	}
	return int64(total), nil
}

// Close closes the underlying client.
func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
