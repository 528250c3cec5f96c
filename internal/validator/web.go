package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

// Dictionary lookup defaults.
const (
	DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultWebTimeout    = 8 * time.Second

	maxDictionaryBody = 1 << 20

	webBaseConfidence      = 0.75
	webKeywordBonus        = 0.02
	webMaxConfidence       = 0.85
	webFailedConfidence    = 0.5
	webUncoveredConfidence = 0.6
)

// WebConfig configures the dictionary lookup.
type WebConfig struct {
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	// RateLimit caps dictionary requests per minute; 0 disables the cap.
	RateLimit int
	Enabled   bool
}

// DefaultWebConfig returns the configuration used when nothing is set.
func DefaultWebConfig() WebConfig {
	return WebConfig{
		BaseURL: DefaultDictionaryURL,
		Timeout: DefaultWebTimeout,
		Enabled: true,
	}
}

// WebValidator checks dictionary definitions for category keywords.
type WebValidator struct {
	httpClient *http.Client
	limiter    *rateLimiter
	group      singleflight.Group
	baseURL    string
	timeout    time.Duration
	enabled    bool
}

type dictionaryResponse struct {
	body   []byte
	status int
}

type dictionaryEntry struct {
	Word     string          `json:"word"`
	Meanings json.RawMessage `json:"meanings"`
}

// NewWebValidator creates a dictionary-backed validator.
func NewWebValidator(cfg WebConfig) *WebValidator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultDictionaryURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultWebTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &WebValidator{
		httpClient: client,
		limiter:    newRateLimiter(cfg.RateLimit),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		enabled:    cfg.Enabled,
	}
}

// Validate looks the word up and matches its definitions against the
// category keywords.
func (v *WebValidator) Validate(ctx context.Context, word string, category model.Category) model.ValidationOutcome {
	if !v.enabled {
		return model.Uncertain(webFailedConfidence, model.SourceWeb, "Validator disabled")
	}
	if common.IsBlank(word) {
		return model.Uncertain(0, model.SourceWeb, "Empty word")
	}

	keywords := categoryKeywords[category]
	if len(keywords) == 0 {
		return model.Uncertain(webUncoveredConfidence, model.SourceWeb,
			fmt.Sprintf("Category %s not covered by dictionary lookup", category.Label()))
	}

	term := strings.ToLower(strings.TrimSpace(word))
	if err := ctx.Err(); err != nil {
		return v.failed(term, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	// The shared fetch outlives a canceled caller so other waiters still get
	// an answer; it is bounded by the timeout on its own.
	fetchCtx := context.WithoutCancel(callCtx)
	ch := v.group.DoChan(term, func() (any, error) {
		fctx, fcancel := context.WithTimeout(fetchCtx, v.timeout)
		defer fcancel()
		return v.fetch(fctx, term)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-callCtx.Done():
		return v.failed(term, callCtx.Err())
	}
	if res.Err != nil {
		return v.failed(term, res.Err)
	}

	resp, ok := res.Val.(*dictionaryResponse)
	if !ok {
		return model.Uncertain(webFailedConfidence, model.SourceWeb, "Unexpected dictionary result")
	}
	return classify(term, category, keywords, resp)
}

func (v *WebValidator) failed(term string, err error) model.ValidationOutcome {
	slog.Debug("Dictionary lookup failed", "word", term, "error", err)

	if errors.Is(err, context.DeadlineExceeded) {
		return model.Uncertain(webFailedConfidence, model.SourceWeb, "Dictionary lookup timed out")
	}
	if errors.Is(err, context.Canceled) {
		return model.Uncertain(webFailedConfidence, model.SourceWeb, "Dictionary lookup canceled")
	}
	return model.Uncertain(webFailedConfidence, model.SourceWeb, fmt.Sprintf("Dictionary lookup failed: %v", err))
}

func (v *WebValidator) fetch(ctx context.Context, term string) (*dictionaryResponse, error) {
	if err := v.limiter.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := v.baseURL + "/" + url.PathEscape(term)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDictionaryBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("Dictionary lookup", "word", term, "status", resp.StatusCode, "bytes", len(body))
	return &dictionaryResponse{status: resp.StatusCode, body: body}, nil
}

func classify(term string, category model.Category, keywords []string, resp *dictionaryResponse) model.ValidationOutcome {
	switch {
	case resp.status == http.StatusNotFound:
		return model.Invalid(model.SourceWeb, fmt.Sprintf("Word '%s' not found in dictionary", term))
	case resp.status != http.StatusOK:
		return model.Uncertain(webFailedConfidence, model.SourceWeb,
			fmt.Sprintf("%v: %d", common.ErrDictionaryStatus, resp.status))
	case len(bytes.TrimSpace(resp.body)) == 0:
		return model.Uncertain(webFailedConfidence, model.SourceWeb, "Empty response from dictionary")
	}

	if !recognized(resp.body) {
		return model.Invalid(model.SourceWeb, "Word not recognized by dictionary")
	}

	matches := countKeywords(strings.ToLower(string(resp.body)), keywords)
	if matches == 0 {
		return model.Invalid(model.SourceWeb,
			fmt.Sprintf("Word '%s' exists but does not match %s category", term, category.Label()))
	}

	return model.Valid(webConfidence(matches), model.SourceWeb,
		fmt.Sprintf("Dictionary definition matches %s (%d keywords)", category.Label(), matches))
}

// recognized reports whether body is a dictionary entry list rather than an
// error document.
func recognized(body []byte) bool {
	var entries []dictionaryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return false
	}
	for _, e := range entries {
		if e.Word != "" && len(e.Meanings) > 0 && string(e.Meanings) != "null" {
			return true
		}
	}
	return false
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func webConfidence(matches int) float64 {
	return math.Min(webMaxConfidence, webBaseConfidence+webKeywordBonus*float64(matches))
}

// SourceName returns WEB_VALIDATOR.
func (v *WebValidator) SourceName() string { return model.SourceWeb }

// IsAvailable reports whether dictionary lookups are enabled.
func (v *WebValidator) IsAvailable() bool { return v.enabled }
