package validator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

// CacheConfidence is the confidence reported for a cache hit.
const CacheConfidence = 0.90

// CacheValidator answers from pairs confirmed in earlier calls. It only ever
// confirms; a miss is an abstention.
type CacheValidator struct {
	store CacheLookup
}

// NewCacheValidator creates a validator reading from store.
func NewCacheValidator(store CacheLookup) *CacheValidator {
	return &CacheValidator{store: store}
}

// Validate looks the pair up in the cache.
func (v *CacheValidator) Validate(ctx context.Context, word string, category model.Category) model.ValidationOutcome {
	if common.IsBlank(word) {
		return model.Uncertain(0, model.SourceLocalDB, "Empty word")
	}
	if v.store == nil {
		return model.Uncertain(0, model.SourceLocalDB, "Cache unavailable")
	}

	found, err := v.store.Exists(ctx, word, category.Key())
	if err != nil {
		slog.Warn("Cache lookup failed",
			"word", word,
			"category", category.Key(),
			"error", err)
		return model.Uncertain(0, model.SourceLocalDB, fmt.Sprintf("Cache lookup failed: %v", err))
	}
	if !found {
		return model.Uncertain(0, model.SourceLocalDB, "Word not found in cache")
	}

	return model.Valid(CacheConfidence, model.SourceLocalDB, "Previously validated word (local cache)")
}

// SourceName returns LOCAL_DB.
func (v *CacheValidator) SourceName() string { return model.SourceLocalDB }

// IsAvailable is always true; store failures become abstentions.
func (v *CacheValidator) IsAvailable() bool { return true }
