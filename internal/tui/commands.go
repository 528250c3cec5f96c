package tui

import (
	"context"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/live"
)

// WordChecker validates words as they are typed.
type WordChecker interface {
	Check(ctx context.Context, category, word string) (live.Result, error)
	Cancel()
}

// checkWord submits the current word. Older submissions are dropped by the
// checker, so only the latest one produces a result without error.
func checkWord(ctx context.Context, checker WordChecker, category, word string) tea.Cmd {
	return func() tea.Msg {
		result, err := checker.Check(ctx, category, word)
		return checkResultMsg{result: result, err: err}
	}
}

// StartsWithLetter reports whether word begins with the round letter,
// ignoring case and accents. An empty letter accepts every word.
func StartsWithLetter(word, letter string) bool {
	letter = common.Fold(letter)
	if letter == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(letter)
	return strings.HasPrefix(common.Fold(word), string(first))
}
