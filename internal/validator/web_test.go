package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Veraticus/petit-bac/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	dogBody   = `[{"word":"dog","meanings":[{"partOfSpeech":"noun","definitions":[{"definition":"A domesticated carnivorous mammal, a common pet animal."}]}]}]`
	appleBody = `[{"word":"apple","meanings":[{"definitions":[{"definition":"The round fruit of a tree of the rose family, which typically has thin red or green skin and crisp flesh."}]}]}]`
)

func newTestWeb(t *testing.T, handler http.HandlerFunc) (*WebValidator, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	v := NewWebValidator(WebConfig{
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		Enabled:    true,
		HTTPClient: server.Client(),
	})
	return v, &hits
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestWebValidator_Responses(t *testing.T) {
	tests := []struct {
		handler     http.HandlerFunc
		name        string
		word        string
		wantDetails string
		wantStatus  model.ValidationStatus
		wantConf    float64
	}{
		{
			name:        "keywords match",
			handler:     respond(http.StatusOK, dogBody),
			word:        "dog",
			wantStatus:  model.StatusValid,
			wantConf:    0.83,
			wantDetails: "Dictionary definition matches Animal (4 keywords)",
		},
		{
			name:        "word exists in another domain",
			handler:     respond(http.StatusOK, appleBody),
			word:        "apple",
			wantStatus:  model.StatusInvalid,
			wantDetails: "Word 'apple' exists but does not match Animal category",
		},
		{
			name:        "not found",
			handler:     respond(http.StatusNotFound, `{"title":"No Definitions Found"}`),
			word:        "xyzabc123",
			wantStatus:  model.StatusInvalid,
			wantDetails: "Word 'xyzabc123' not found in dictionary",
		},
		{
			name:        "server error",
			handler:     respond(http.StatusInternalServerError, "boom"),
			word:        "dog",
			wantStatus:  model.StatusUncertain,
			wantConf:    0.5,
			wantDetails: "unexpected dictionary status: 500",
		},
		{
			name:        "empty body",
			handler:     respond(http.StatusOK, "  "),
			word:        "dog",
			wantStatus:  model.StatusUncertain,
			wantConf:    0.5,
			wantDetails: "Empty response from dictionary",
		},
		{
			name:        "not an entry list",
			handler:     respond(http.StatusOK, `{"title":"No Definitions Found"}`),
			word:        "dog",
			wantStatus:  model.StatusInvalid,
			wantDetails: "Word not recognized by dictionary",
		},
		{
			name:        "entries without meanings",
			handler:     respond(http.StatusOK, `[{"word":"dog"}]`),
			word:        "dog",
			wantStatus:  model.StatusInvalid,
			wantDetails: "Word not recognized by dictionary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, hits := newTestWeb(t, tt.handler)
			got := v.Validate(context.Background(), tt.word, model.CategoryAnimal)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.001)
			assert.Equal(t, model.SourceWeb, got.Source)
			assert.Equal(t, tt.wantDetails, got.Details)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits))
		})
	}
}

func TestWebValidator_ConfidenceCap(t *testing.T) {
	body := `[{"word":"beast","meanings":[{"definitions":[{"definition":"` +
		strings.Join(Keywords(model.CategoryAnimal), " ") + `"}]}]}]`
	v, _ := newTestWeb(t, respond(http.StatusOK, body))

	got := v.Validate(context.Background(), "beast", model.CategoryAnimal)
	assert.True(t, got.IsValid())
	assert.InDelta(t, 0.85, got.Confidence, 0.001)

	for n := 0; n <= 50; n++ {
		assert.LessOrEqual(t, webConfidence(n), 0.85)
	}
	assert.InDelta(t, 0.77, webConfidence(1), 0.001)
}

func TestWebValidator_NoRequestWhenSkipped(t *testing.T) {
	v, hits := newTestWeb(t, respond(http.StatusOK, dogBody))

	got := v.Validate(context.Background(), "marie", model.CategoryPrenom)
	assert.True(t, got.IsUncertain())
	assert.InDelta(t, 0.6, got.Confidence, 0.001)

	got = v.Validate(context.Background(), "   ", model.CategoryAnimal)
	assert.True(t, got.IsUncertain())
	assert.Equal(t, "Empty word", got.Details)

	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestWebValidator_Disabled(t *testing.T) {
	cfg := DefaultWebConfig()
	cfg.Enabled = false
	v := NewWebValidator(cfg)

	assert.False(t, v.IsAvailable())
	assert.Equal(t, "WEB_VALIDATOR", v.SourceName())
	got := v.Validate(context.Background(), "dog", model.CategoryAnimal)
	assert.True(t, got.IsUncertain())
	assert.Equal(t, "Validator disabled", got.Details)
}

func TestWebValidator_RequestPath(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	v, _ := newTestWeb(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
	})

	v.Validate(context.Background(), "  DOG ", model.CategoryAnimal)
	v.Validate(context.Background(), "ice cream", model.CategoryFruit)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/dog", "/ice cream"}, paths)
}

func TestWebValidator_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := NewWebValidator(WebConfig{
		BaseURL:    server.URL,
		Timeout:    50 * time.Millisecond,
		Enabled:    true,
		HTTPClient: server.Client(),
	})

	start := time.Now()
	got := v.Validate(context.Background(), "dog", model.CategoryAnimal)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, got.IsUncertain())
	assert.InDelta(t, 0.5, got.Confidence, 0.001)
	assert.Contains(t, got.Details, "timed out")
}

func TestWebValidator_CanceledContext(t *testing.T) {
	v, _ := newTestWeb(t, respond(http.StatusOK, dogBody))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := v.Validate(ctx, "dog", model.CategoryAnimal)
	assert.True(t, got.IsUncertain())
	assert.Equal(t, model.SourceWeb, got.Source)
}

func TestWebValidator_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	v := NewWebValidator(WebConfig{BaseURL: url, Timeout: time.Second, Enabled: true})
	got := v.Validate(context.Background(), "dog", model.CategoryAnimal)
	assert.True(t, got.IsUncertain())
	assert.Contains(t, got.Details, "Dictionary lookup failed")
	v.httpClient.CloseIdleConnections()
}

func TestWebValidator_SharesConcurrentLookups(t *testing.T) {
	release := make(chan struct{})
	v, hits := newTestWeb(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(dogBody))
	})

	const callers = 5
	results := make(chan model.ValidationOutcome, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- v.Validate(context.Background(), "dog", model.CategoryAnimal)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(hits) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for got := range results {
		assert.True(t, got.IsValid())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}
