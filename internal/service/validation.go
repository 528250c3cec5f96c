package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

// Engine is the validator chain the service delegates to.
type Engine interface {
	Validate(ctx context.Context, word string, category model.Category) model.ValidationOutcome
	AvailableValidators() []string
	ConfidenceThreshold() float64
}

// CacheWriteObserver is told about every attempted cache write.
type CacheWriteObserver interface {
	ObserveCacheWrite(category string, err error)
}

// Config holds optional collaborators for the service.
type Config struct {
	CacheWriteObserver CacheWriteObserver
}

// ValidationService is the caller-facing entry point: it normalizes input,
// resolves the category, runs the engine and feeds confirmed answers back
// into the cache. It is safe for concurrent use.
type ValidationService struct {
	engine      Engine
	store       Store
	observer    CacheWriteObserver
	validations atomic.Int64
	cacheWrites atomic.Int64
}

// NewValidationService creates a service over engine and store. store may be
// nil, in which case nothing is persisted.
func NewValidationService(engine Engine, store Store) *ValidationService {
	return NewValidationServiceWithConfig(engine, store, Config{})
}

// NewValidationServiceWithConfig creates a service with custom configuration.
func NewValidationServiceWithConfig(engine Engine, store Store, config Config) *ValidationService {
	return &ValidationService{
		engine:   engine,
		store:    store,
		observer: config.CacheWriteObserver,
	}
}

// ValidateWord checks word against the category named by category.
func (s *ValidationService) ValidateWord(ctx context.Context, category, word string) model.ValidationOutcome {
	if common.IsBlank(word) {
		return model.Invalid(model.SourceService, "Empty word")
	}
	if common.IsBlank(category) {
		return model.Errored(model.SourceService, "Category is null")
	}

	normalizedWord := common.NormalizeInput(word)
	resolved, ok := ResolveCategory(category)
	if !ok {
		return model.Errored(model.SourceService, fmt.Sprintf("Unknown category: %s", category))
	}

	s.validations.Add(1)
	outcome := s.engine.Validate(ctx, normalizedWord, resolved)

	if outcome.IsValid() && outcome.Confidence == 1.0 {
		s.remember(ctx, normalizedWord, resolved)
	}

	slog.Debug("Validated word",
		"word", normalizedWord,
		"category", resolved.Key(),
		"status", outcome.Status,
		"source", outcome.Source)
	return outcome
}

// ValidateWordBool reports whether the word was accepted.
func (s *ValidationService) ValidateWordBool(ctx context.Context, category, word string) bool {
	return s.ValidateWord(ctx, category, word).IsValid()
}

// remember stores a deterministic confirmation. Failures never change the
// outcome already computed.
func (s *ValidationService) remember(ctx context.Context, word string, category model.Category) {
	if s.store == nil {
		return
	}

	err := s.store.InsertIfAbsent(ctx, word, category.Key())
	if s.observer != nil {
		s.observer.ObserveCacheWrite(category.Key(), err)
	}
	if err != nil {
		slog.Warn("Failed to cache validated word",
			"word", word,
			"category", category.Key(),
			"error", err)
		return
	}
	s.cacheWrites.Add(1)
}

// ResolveCategory maps user input onto a category: an exact match on the
// identifier or display label first, then containment either way against
// the label.
func ResolveCategory(input string) (model.Category, bool) {
	norm := common.NormalizeInput(input)
	if norm == "" {
		return "", false
	}

	for _, c := range model.Categories() {
		if norm == common.NormalizeInput(c.Key()) || norm == common.NormalizeInput(c.Label()) {
			return c, true
		}
	}

	for _, c := range model.Categories() {
		label := common.NormalizeInput(c.Label())
		if strings.Contains(label, norm) || strings.Contains(norm, label) {
			return c, true
		}
	}

	return "", false
}

// AvailableValidators lists the engine's available sources in order.
func (s *ValidationService) AvailableValidators() []string {
	return s.engine.AvailableValidators()
}

// ConfidenceThreshold returns the engine's presentation threshold.
func (s *ValidationService) ConfidenceThreshold() float64 {
	return s.engine.ConfidenceThreshold()
}

// Stats summarizes the service state.
type Stats struct {
	Validators          []string
	ConfidenceThreshold float64
	Validations         int64
	CacheWrites         int64
	// CachedWords is -1 when the store cannot count its entries.
	CachedWords int
}

func (st Stats) String() string {
	cached := "n/a"
	if st.CachedWords >= 0 {
		cached = fmt.Sprintf("%d", st.CachedWords)
	}
	return fmt.Sprintf("Available validators: [%s] | Confidence threshold: %.2f | Validations: %d | Cache writes: %d | Cached words: %s",
		strings.Join(st.Validators, ", "), st.ConfidenceThreshold, st.Validations, st.CacheWrites, cached)
}

// Stats returns counters for this process plus the cache size.
func (s *ValidationService) Stats(ctx context.Context) Stats {
	st := Stats{
		Validators:          s.engine.AvailableValidators(),
		ConfidenceThreshold: s.engine.ConfidenceThreshold(),
		Validations:         s.validations.Load(),
		CacheWrites:         s.cacheWrites.Load(),
		CachedWords:         -1,
	}

	if counter, ok := s.store.(interface {
		Count(ctx context.Context) (int, error)
	}); ok {
		if n, err := counter.Count(ctx); err == nil {
			st.CachedWords = n
		} else {
			slog.Warn("Failed to count cached words", "error", err)
		}
	}
	return st
}

// ClearCache removes every cached confirmation.
func (s *ValidationService) ClearCache(ctx context.Context) (int64, error) {
	clearer, ok := s.store.(interface {
		Clear(ctx context.Context) (int64, error)
	})
	if !ok {
		return 0, fmt.Errorf("%w: store cannot be cleared", common.ErrUnsupportedStore)
	}

	deleted, err := clearer.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	slog.Info("Cleared validation cache", "deleted", deleted)
	return deleted, nil
}
