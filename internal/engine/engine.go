// Package engine runs validators in precedence order and stops at the first
// confident verdict.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/validator"
)

// Observer is notified after every validator call.
type Observer interface {
	ObserveValidation(source string, outcome model.ValidationOutcome, elapsed time.Duration)
}

// CategorizationEngine consults validators in order.
type CategorizationEngine struct {
	observer   Observer
	validators []validator.Validator
	threshold  float64
}

// Config holds configuration options for the engine.
type Config struct {
	Observer Observer
	// ConfidenceThreshold is the confidence below which presentation layers
	// show a VALID outcome as provisional. It does not affect the chain.
	ConfidenceThreshold float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.70,
	}
}

// New creates an engine consulting validators in the given order.
func New(validators ...validator.Validator) *CategorizationEngine {
	return NewWithConfig(DefaultConfig(), validators...)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(config Config, validators ...validator.Validator) *CategorizationEngine {
	if config.ConfidenceThreshold <= 0 || config.ConfidenceThreshold > 1 {
		config.ConfidenceThreshold = DefaultConfig().ConfidenceThreshold
	}

	chain := make([]validator.Validator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			chain = append(chain, v)
		}
	}

	return &CategorizationEngine{
		validators: chain,
		observer:   config.Observer,
		threshold:  config.ConfidenceThreshold,
	}
}

// NewDefault builds the standard chain: cache, word lists, dictionary, semantic.
func NewDefault(cache, list, web, semantic validator.Validator) *CategorizationEngine {
	return New(cache, list, web, semantic)
}

// Validate returns the first VALID or INVALID outcome from the chain. When
// every available validator abstains, the last abstention is returned.
func (e *CategorizationEngine) Validate(ctx context.Context, word string, category model.Category) model.ValidationOutcome {
	if common.IsBlank(word) {
		return model.Invalid(model.SourceEngine, "Empty word")
	}

	var last *model.ValidationOutcome
	for _, v := range e.validators {
		if !v.IsAvailable() {
			continue
		}

		if ctx.Err() != nil {
			slog.Debug("Validation canceled", "word", word, "category", category.Key(), "next", v.SourceName())
			if last != nil {
				return *last
			}
			return model.Uncertain(0, model.SourceEngine, "validation canceled")
		}

		start := time.Now()
		outcome := v.Validate(ctx, word, category)
		elapsed := time.Since(start)

		if e.observer != nil {
			e.observer.ObserveValidation(v.SourceName(), outcome, elapsed)
		}
		slog.Debug("Validator answered",
			"word", word,
			"category", category.Key(),
			"source", v.SourceName(),
			"status", outcome.Status,
			"confidence", outcome.Confidence,
			"elapsed", elapsed)

		if outcome.IsConfident() {
			return outcome
		}
		last = &outcome
	}

	if last == nil {
		return model.Uncertain(0, model.SourceEngine, "No validator available")
	}
	return *last
}

// AvailableValidators lists the source names of available validators in
// chain order.
func (e *CategorizationEngine) AvailableValidators() []string {
	names := make([]string, 0, len(e.validators))
	for _, v := range e.validators {
		if v.IsAvailable() {
			names = append(names, v.SourceName())
		}
	}
	return names
}

// ConfidenceThreshold returns the presentation threshold for VALID outcomes.
func (e *CategorizationEngine) ConfidenceThreshold() float64 {
	return e.threshold
}

// IsLowTrust reports whether outcome is a VALID below the threshold.
func (e *CategorizationEngine) IsLowTrust(outcome model.ValidationOutcome) bool {
	return outcome.IsValid() && outcome.Confidence < e.threshold
}
