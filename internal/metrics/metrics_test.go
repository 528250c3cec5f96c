package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/petit-bac/internal/model"
)

type fakeCounter struct {
	err    error
	counts map[string]int
}

func (f *fakeCounter) CountByCategory(context.Context) (map[string]int, error) {
	return f.counts, f.err
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveValidation(model.SourceFixed, model.Valid(1, model.SourceFixed, ""), 2*time.Millisecond)
	r.ObserveValidation(model.SourceFixed, model.Valid(1, model.SourceFixed, ""), time.Millisecond)
	r.ObserveValidation(model.SourceWeb, model.Invalid(model.SourceWeb, ""), 300*time.Millisecond)
	r.ObserveCacheWrite("animal", nil)
	r.ObserveCacheWrite("animal", errors.New("locked"))

	assert.InDelta(t, 2, testutil.ToFloat64(r.validations.WithLabelValues("FIXED_LIST", "VALID")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(r.validations.WithLabelValues("WEB_VALIDATOR", "INVALID")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(r.cacheWrites.WithLabelValues("animal", "ok")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(r.cacheWrites.WithLabelValues("animal", "error")), 0.001)
	assert.Equal(t, 2, testutil.CollectAndCount(r.latency))

	// Registering twice on the same registry fails.
	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestCacheCollector(t *testing.T) {
	c := NewCacheCollector(&fakeCounter{counts: map[string]int{"animal": 3, "ville": 1}})

	expected := `
# HELP bac_cached_words Confirmed words held in the validation cache, by category
# TYPE bac_cached_words gauge
bac_cached_words{category="animal"} 3
bac_cached_words{category="ville"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCacheCollector_StoreError(t *testing.T) {
	c := NewCacheCollector(&fakeCounter{err: errors.New("db closed")})
	assert.Zero(t, testutil.CollectAndCount(c))
}
