package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/validator"
	"github.com/Veraticus/petit-bac/internal/wordlist"
)

type stubValidator struct {
	onCall    func()
	source    string
	outcome   model.ValidationOutcome
	calls     int
	available bool
	mu        sync.Mutex
}

func newStub(source string, outcome model.ValidationOutcome) *stubValidator {
	return &stubValidator{source: source, outcome: outcome, available: true}
}

func (s *stubValidator) Validate(_ context.Context, _ string, _ model.Category) model.ValidationOutcome {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.onCall != nil {
		s.onCall()
	}
	return s.outcome
}

func (s *stubValidator) SourceName() string { return s.source }
func (s *stubValidator) IsAvailable() bool  { return s.available }

func (s *stubValidator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingObserver struct {
	sources []string
}

func (r *recordingObserver) ObserveValidation(source string, _ model.ValidationOutcome, _ time.Duration) {
	r.sources = append(r.sources, source)
}

func TestCategorizationEngine_ShortCircuit(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   []model.ValidationOutcome
		wantCalls  []int
		wantStatus model.ValidationStatus
		wantSource string
	}{
		{
			name: "first validator confirms",
			outcomes: []model.ValidationOutcome{
				model.Valid(0.9, "A", "hit"),
				model.Valid(1.0, "B", "hit"),
				model.Invalid("C", "no"),
			},
			wantCalls:  []int{1, 0, 0},
			wantStatus: model.StatusValid,
			wantSource: "A",
		},
		{
			name: "second validator confirms",
			outcomes: []model.ValidationOutcome{
				model.Uncertain(0, "A", "miss"),
				model.Valid(1.0, "B", "hit"),
				model.Invalid("C", "no"),
			},
			wantCalls:  []int{1, 1, 0},
			wantStatus: model.StatusValid,
			wantSource: "B",
		},
		{
			name: "rejection stops the chain",
			outcomes: []model.ValidationOutcome{
				model.Uncertain(0, "A", "miss"),
				model.Invalid("B", "no"),
				model.Valid(1.0, "C", "hit"),
			},
			wantCalls:  []int{1, 1, 0},
			wantStatus: model.StatusInvalid,
			wantSource: "B",
		},
		{
			name: "all abstain returns last",
			outcomes: []model.ValidationOutcome{
				model.Uncertain(0, "A", "miss"),
				model.Uncertain(0.5, "B", "timeout"),
				model.Uncertain(0.6, "C", "not covered"),
			},
			wantCalls:  []int{1, 1, 1},
			wantStatus: model.StatusUncertain,
			wantSource: "C",
		},
		{
			name: "error outcomes do not stop the chain",
			outcomes: []model.ValidationOutcome{
				model.Errored("A", "broken"),
				model.Valid(1.0, "B", "hit"),
				model.Invalid("C", "no"),
			},
			wantCalls:  []int{1, 1, 0},
			wantStatus: model.StatusValid,
			wantSource: "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubs := make([]*stubValidator, len(tt.outcomes))
			chain := make([]validator.Validator, len(tt.outcomes))
			for i, o := range tt.outcomes {
				stubs[i] = newStub(o.Source, o)
				chain[i] = stubs[i]
			}

			got := New(chain...).Validate(context.Background(), "chien", model.CategoryAnimal)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantSource, got.Source)
			for i, s := range stubs {
				assert.Equal(t, tt.wantCalls[i], s.callCount(), "validator %s", s.source)
			}
		})
	}
}

func TestCategorizationEngine_EmptyWord(t *testing.T) {
	stub := newStub("A", model.Valid(1, "A", "hit"))
	e := New(stub)

	for _, w := range []string{"", "   ", "\t"} {
		got := e.Validate(context.Background(), w, model.CategoryAnimal)
		assert.Equal(t, model.StatusInvalid, got.Status)
		assert.Equal(t, model.SourceEngine, got.Source)
		assert.Equal(t, "Empty word", got.Details)
	}
	assert.Zero(t, stub.callCount())
}

func TestCategorizationEngine_SkipsUnavailable(t *testing.T) {
	off := newStub("OFF", model.Valid(1, "OFF", "should not run"))
	off.available = false
	on := newStub("ON", model.Uncertain(0, "ON", "miss"))

	e := New(off, on)
	got := e.Validate(context.Background(), "chien", model.CategoryAnimal)
	assert.Equal(t, "ON", got.Source)
	assert.Zero(t, off.callCount())
	assert.Equal(t, []string{"ON"}, e.AvailableValidators())
}

func TestCategorizationEngine_NoValidators(t *testing.T) {
	off := newStub("OFF", model.Valid(1, "OFF", "x"))
	off.available = false

	for _, e := range []*CategorizationEngine{New(), New(off)} {
		got := e.Validate(context.Background(), "chien", model.CategoryAnimal)
		assert.Equal(t, model.StatusUncertain, got.Status)
		assert.Equal(t, model.SourceEngine, got.Source)
		assert.Equal(t, "No validator available", got.Details)
	}
}

func TestCategorizationEngine_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := newStub("A", model.Uncertain(0, "A", "miss"))
	first.onCall = cancel
	second := newStub("B", model.Valid(1, "B", "hit"))

	got := New(first, second).Validate(ctx, "chien", model.CategoryAnimal)
	assert.Equal(t, "A", got.Source)
	assert.Zero(t, second.callCount())

	got = New(second).Validate(ctx, "chien", model.CategoryAnimal)
	assert.Equal(t, model.SourceEngine, got.Source)
	assert.Equal(t, "validation canceled", got.Details)
}

func TestCategorizationEngine_Observer(t *testing.T) {
	obs := &recordingObserver{}
	e := NewWithConfig(Config{Observer: obs},
		newStub("A", model.Uncertain(0, "A", "miss")),
		newStub("B", model.Valid(1, "B", "hit")),
		newStub("C", model.Valid(1, "C", "hit")),
	)

	e.Validate(context.Background(), "chien", model.CategoryAnimal)
	assert.Equal(t, []string{"A", "B"}, obs.sources)
}

func TestCategorizationEngine_Threshold(t *testing.T) {
	assert.InDelta(t, 0.70, New().ConfidenceThreshold(), 0.0001)
	assert.InDelta(t, 0.70, NewWithConfig(Config{ConfidenceThreshold: 7}).ConfidenceThreshold(), 0.0001)

	e := NewWithConfig(Config{ConfidenceThreshold: 0.8})
	assert.InDelta(t, 0.8, e.ConfidenceThreshold(), 0.0001)
	assert.True(t, e.IsLowTrust(model.Valid(0.77, "W", "")))
	assert.False(t, e.IsLowTrust(model.Valid(0.9, "W", "")))
	assert.False(t, e.IsLowTrust(model.Uncertain(0.5, "W", "")))
}

func TestNewDefault_Order(t *testing.T) {
	lists, err := wordlist.Default()
	require.NoError(t, err)

	web := validator.NewWebValidator(validator.DefaultWebConfig())
	e := NewDefault(
		validator.NewCacheValidator(nil),
		validator.NewFixedListValidator(lists),
		web,
		validator.NewSemanticValidator(false),
	)

	assert.Equal(t,
		[]string{model.SourceLocalDB, model.SourceFixed, model.SourceWeb},
		e.AvailableValidators())

	// The list answers before the dictionary is ever needed.
	got := e.Validate(context.Background(), "chien", model.CategoryAnimal)
	assert.Equal(t, model.StatusValid, got.Status)
	assert.Equal(t, model.SourceFixed, got.Source)
	assert.InDelta(t, 1.0, got.Confidence, 0.0001)
}
