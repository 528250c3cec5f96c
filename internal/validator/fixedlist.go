package validator

import (
	"context"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

// WordLists is the lookup the fixed list validator needs.
type WordLists interface {
	Contains(category model.Category, word string) bool
}

// FixedListValidator confirms words found in the curated lists.
type FixedListValidator struct {
	lists WordLists
}

// NewFixedListValidator creates a validator over lists.
func NewFixedListValidator(lists WordLists) *FixedListValidator {
	return &FixedListValidator{lists: lists}
}

// Validate checks list membership. Absence is never a rejection.
func (v *FixedListValidator) Validate(_ context.Context, word string, category model.Category) model.ValidationOutcome {
	if common.IsBlank(word) {
		return model.Uncertain(0, model.SourceFixed, "Empty word")
	}
	if v.lists != nil && v.lists.Contains(category, word) {
		return model.Valid(1.0, model.SourceFixed, "Found in "+category.Label()+" word list")
	}
	return model.Uncertain(0, model.SourceFixed, "Not in "+category.Label()+" word list")
}

// SourceName returns FIXED_LIST.
func (v *FixedListValidator) SourceName() string { return model.SourceFixed }

// IsAvailable is always true.
func (v *FixedListValidator) IsAvailable() bool { return true }
