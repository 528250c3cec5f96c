// Package wordlist holds the curated per-category answers accepted without
// any external lookup.
package wordlist

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

//go:embed words.yaml
var defaultWords []byte

// Lists maps each category to its set of folded words. A Lists value is
// read-only once built and safe for concurrent use.
type Lists struct {
	sets map[model.Category]map[string]struct{}
}

// Default returns the lists shipped with the binary.
func Default() (*Lists, error) {
	return Load(bytes.NewReader(defaultWords))
}

// LoadFile reads lists from a YAML file on disk.
func LoadFile(path string) (*Lists, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's config
	if err != nil {
		return nil, fmt.Errorf("failed to open word lists: %w", err)
	}
	defer func() { _ = f.Close() }()

	lists, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return lists, nil
}

// Load parses a YAML document mapping category keys to word sequences.
// Categories missing from the document get an empty set.
func Load(r io.Reader) (*Lists, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse word lists: %w", err)
	}

	lists := &Lists{sets: make(map[model.Category]map[string]struct{}, len(raw))}
	for _, c := range model.Categories() {
		lists.sets[c] = make(map[string]struct{})
	}

	for key, words := range raw {
		category, ok := model.CategoryFromKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", common.ErrUnknownCategory, key)
		}
		set := lists.sets[category]
		for _, w := range words {
			if folded := common.Fold(w); folded != "" {
				set[folded] = struct{}{}
			}
		}
	}

	return lists, nil
}

// Contains reports whether word, once folded, is listed for category.
func (l *Lists) Contains(category model.Category, word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.sets[category][common.Fold(word)]
	return ok
}

// Size returns the number of words listed for category.
func (l *Lists) Size(category model.Category) int {
	if l == nil {
		return 0
	}
	return len(l.sets[category])
}

// Words returns the sorted words listed for category.
func (l *Lists) Words(category model.Category) []string {
	if l == nil {
		return nil
	}
	words := make([]string, 0, len(l.sets[category]))
	for w := range l.sets[category] {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
