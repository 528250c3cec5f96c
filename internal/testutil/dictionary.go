package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// Dictionary is a fake dictionary service. Terms listed in Entries answer
// 200 with their body; everything else answers 404.
type Dictionary struct {
	*httptest.Server
	Entries map[string]string
	hits    atomic.Int32
}

// NewDictionary starts a fake dictionary that is closed when the test ends.
func NewDictionary(t *testing.T, entries map[string]string) *Dictionary {
	t.Helper()

	d := &Dictionary{Entries: entries}
	d.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.hits.Add(1)
		body, ok := d.Entries[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(d.Close)
	return d
}

// Hits returns how many requests the dictionary has served.
func (d *Dictionary) Hits() int {
	return int(d.hits.Load())
}
