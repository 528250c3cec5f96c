package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/engine"
	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/service"
	"github.com/Veraticus/petit-bac/internal/storage"
	"github.com/Veraticus/petit-bac/internal/testutil"
	"github.com/Veraticus/petit-bac/internal/validator"
	"github.com/Veraticus/petit-bac/internal/wordlist"
)

const appleBody = `[{"word":"apple","meanings":[{"definitions":[{"definition":"The round fruit of a tree of the rose family, which typically has thin red or green skin and crisp flesh."}]}]}]`

const elephantBody = `[{"word":"elephant","meanings":[{"definitions":[{"definition":"A very large plant-eating mammal with a prehensile trunk."}]}]}]`

type harness struct {
	svc   *service.ValidationService
	store *storage.SQLiteStorage
	dict  *testutil.Dictionary
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dict := testutil.NewDictionary(t, map[string]string{
		"apple":     appleBody,
		"elephant":  elephantBody,
		"butterfly": elephantBody,
	})
	store := testutil.SetupTestDB(t).Storage

	lists, err := wordlist.Default()
	require.NoError(t, err)

	eng := engine.NewDefault(
		validator.NewCacheValidator(store),
		validator.NewFixedListValidator(lists),
		validator.NewWebValidator(validator.WebConfig{
			BaseURL:    dict.URL,
			Timeout:    2 * time.Second,
			Enabled:    true,
			HTTPClient: dict.Client(),
		}),
		validator.NewSemanticValidator(false),
	)

	return &harness{
		svc:   service.NewValidationService(eng, store),
		store: store,
		dict:  dict,
	}
}

func TestValidateWord_Scenarios(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		category   string
		word       string
		wantStatus model.ValidationStatus
		wantSource string
		wantConf   float64
	}{
		{name: "listed animal", category: "ANIMAL", word: "chien", wantStatus: model.StatusValid, wantSource: model.SourceFixed, wantConf: 1.0},
		{name: "empty word", category: "ANIMAL", word: "", wantStatus: model.StatusInvalid, wantSource: model.SourceService},
		{name: "blank word", category: "ANIMAL", word: "   ", wantStatus: model.StatusInvalid, wantSource: model.SourceService},
		{name: "unknown category", category: "UNKNOWNCAT", word: "cat", wantStatus: model.StatusError, wantSource: model.SourceService},
		{name: "blank category", category: " ", word: "cat", wantStatus: model.StatusError, wantSource: model.SourceService},
		{name: "dictionary rejects other domain", category: "ANIMAL", word: "apple", wantStatus: model.StatusInvalid, wantSource: model.SourceWeb},
		{name: "dictionary confirms", category: "ANIMAL", word: "butterfly", wantStatus: model.StatusValid, wantSource: model.SourceWeb, wantConf: 0.77},
		{name: "dictionary miss", category: "ANIMAL", word: "xyzabc123", wantStatus: model.StatusInvalid, wantSource: model.SourceWeb},
		{name: "uncovered category abstains", category: "PRENOM", word: "zorglub", wantStatus: model.StatusUncertain, wantSource: model.SourceWeb, wantConf: 0.6},
		{name: "case and accents", category: "animal", word: "  ÉLÉPHANT ", wantStatus: model.StatusValid, wantSource: model.SourceFixed, wantConf: 1.0},
		{name: "label resolves", category: "Fruit/Légume", word: "pomme", wantStatus: model.StatusValid, wantSource: model.SourceFixed, wantConf: 1.0},
		{name: "partial label resolves", category: "fruit", word: "poire", wantStatus: model.StatusValid, wantSource: model.SourceFixed, wantConf: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.svc.ValidateWord(ctx, tt.category, tt.word)
			assert.Equal(t, tt.wantStatus, got.Status, got.String())
			assert.Equal(t, tt.wantSource, got.Source)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.001)
		})
	}
}

func TestValidateWord_ErrorDetails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.Equal(t, "Unknown category: UNKNOWNCAT", h.svc.ValidateWord(ctx, "UNKNOWNCAT", "cat").Details)
	assert.Equal(t, "Category is null", h.svc.ValidateWord(ctx, "", "cat").Details)
	assert.Equal(t, "Empty word", h.svc.ValidateWord(ctx, "ANIMAL", "").Details)
	assert.Zero(t, h.dict.Hits())
}

func TestValidateWord_CacheRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := h.svc.ValidateWord(ctx, "ANIMAL", "chien")
	require.Equal(t, model.SourceFixed, first.Source)

	exists, err := h.store.Exists(ctx, "chien", "animal")
	require.NoError(t, err)
	assert.True(t, exists)

	second := h.svc.ValidateWord(ctx, "ANIMAL", "chien")
	assert.Equal(t, model.StatusValid, second.Status)
	assert.Equal(t, model.SourceLocalDB, second.Source)
	assert.InDelta(t, 0.90, second.Confidence, 0.001)

	// A cache hit is below 1.0 and never rewritten.
	count, err := h.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestValidateWord_DictionaryAnswersAreNotCached(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got := h.svc.ValidateWord(ctx, "ANIMAL", "butterfly")
	require.True(t, got.IsValid())

	exists, err := h.store.Exists(ctx, "butterfly", "animal")
	require.NoError(t, err)
	assert.False(t, exists)

	got = h.svc.ValidateWord(ctx, "ANIMAL", "butterfly")
	assert.Equal(t, model.SourceWeb, got.Source)
	assert.Equal(t, 2, h.dict.Hits())
}

func TestValidateWord_Concurrent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := h.svc.ValidateWord(ctx, "PAYS", "France")
			assert.True(t, got.IsValid())
		}()
	}
	wg.Wait()

	count, err := h.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type failingStore struct {
	inserts int32
}

func (f *failingStore) Exists(context.Context, string, string) (bool, error) {
	return false, errors.New("read failed")
}

func (f *failingStore) InsertIfAbsent(context.Context, string, string) error {
	atomic.AddInt32(&f.inserts, 1)
	return errors.New("write failed")
}

type writeRecorder struct {
	errs []error
}

func (w *writeRecorder) ObserveCacheWrite(_ string, err error) {
	w.errs = append(w.errs, err)
}

func TestValidateWord_StoreFailuresDoNotChangeOutcome(t *testing.T) {
	lists, err := wordlist.Default()
	require.NoError(t, err)

	store := &failingStore{}
	rec := &writeRecorder{}
	eng := engine.New(validator.NewCacheValidator(store), validator.NewFixedListValidator(lists))
	svc := service.NewValidationServiceWithConfig(eng, store, service.Config{CacheWriteObserver: rec})

	got := svc.ValidateWord(context.Background(), "VILLE", "Paris")
	assert.Equal(t, model.StatusValid, got.Status)
	assert.Equal(t, model.SourceFixed, got.Source)
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.inserts))
	require.Len(t, rec.errs, 1)
	assert.Error(t, rec.errs[0])
	assert.Zero(t, svc.Stats(context.Background()).CacheWrites)

	_, err = svc.ClearCache(context.Background())
	assert.ErrorIs(t, err, common.ErrUnsupportedStore)
}

func TestValidateWordBool(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.svc.ValidateWordBool(context.Background(), "ville", "paris"))
	assert.False(t, h.svc.ValidateWordBool(context.Background(), "ville", ""))
}

func TestStatsAndClear(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.svc.ValidateWord(ctx, "ANIMAL", "chat")
	h.svc.ValidateWord(ctx, "PAYS", "france")
	h.svc.ValidateWord(ctx, "ANIMAL", "")

	st := h.svc.Stats(ctx)
	assert.Equal(t, []string{"LOCAL_DB", "FIXED_LIST", "WEB_VALIDATOR"}, st.Validators)
	assert.Equal(t, int64(2), st.Validations)
	assert.Equal(t, int64(2), st.CacheWrites)
	assert.Equal(t, 2, st.CachedWords)
	assert.Contains(t, st.String(), "Confidence threshold: 0.70")
	assert.Equal(t, h.svc.AvailableValidators(), st.Validators)
	assert.InDelta(t, 0.70, h.svc.ConfidenceThreshold(), 0.0001)

	deleted, err := h.svc.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 0, h.svc.Stats(ctx).CachedWords)
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		input string
		want  model.Category
		ok    bool
	}{
		{"PAYS", model.CategoryPays, true},
		{"  ville ", model.CategoryVille, true},
		{"Métier", model.CategoryMetier, true},
		{"metier", model.CategoryMetier, true},
		{"Prénom", model.CategoryPrenom, true},
		{"FRUIT", model.CategoryFruit, true},
		{"legume", model.CategoryFruit, true},
		{"Célébrité", model.CategoryCelebrite, true},
		{"les animaux", "", false},
		{"mon animal", model.CategoryAnimal, true},
		{"UNKNOWNCAT", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := service.ResolveCategory(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
