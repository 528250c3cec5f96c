// Package validator implements the individual oracles consulted by the
// categorization engine. Every validator turns its own failures into an
// outcome; none of them return errors or panic on bad input.
package validator

import (
	"context"

	"github.com/Veraticus/petit-bac/internal/model"
)

// Validator decides whether a word belongs to a category.
type Validator interface {
	Validate(ctx context.Context, word string, category model.Category) model.ValidationOutcome
	SourceName() string
	IsAvailable() bool
}

// CacheLookup is the read side of the persistent cache.
type CacheLookup interface {
	Exists(ctx context.Context, word, category string) (bool, error)
}
