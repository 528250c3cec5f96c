// Package tui implements the interactive word checker: pick a category, type
// a word and see the verdict update as you type.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/live"
	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/tui/themes"
)

// Model holds the checker state.
type Model struct {
	ctx        context.Context
	checker    WordChecker
	lastError  error
	result     *live.Result
	theme      themes.Theme
	help       help.Model
	keymap     KeyMap
	config     Config
	categories []model.Category
	input      textinput.Model
	selected   int
	checked    int
	width      int
	height     int
	pending    bool
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, checker WordChecker, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Type a word"
	input.CharLimit = 64
	input.Width = 40
	input.Focus()

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:        ctx,
		checker:    checker,
		config:     cfg,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       h,
		categories: cfg.Categories,
		input:      input,
		width:      cfg.Width,
		height:     cfg.Height,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.checker.Cancel()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextCategory):
			m.selected = (m.selected + 1) % len(m.categories)
			return m, m.submit()
		case key.Matches(msg, m.keymap.PrevCategory):
			m.selected = (m.selected - 1 + len(m.categories)) % len(m.categories)
			return m, m.submit()
		case key.Matches(msg, m.keymap.Clear):
			m.input.SetValue("")
			return m, m.submit()
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.submit())

	case checkResultMsg:
		m.handleResult(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a check for the current word, or cancels the pending one
// when the field is empty.
func (m *Model) submit() tea.Cmd {
	m.lastError = nil
	word := m.input.Value()
	if common.IsBlank(word) {
		m.checker.Cancel()
		m.pending = false
		m.result = nil
		return nil
	}
	m.pending = true
	return checkWord(m.ctx, m.checker, m.category().Key(), word)
}

func (m *Model) handleResult(msg checkResultMsg) {
	if errors.Is(msg.err, common.ErrSuperseded) {
		return
	}
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return
		}
		slog.Debug("Live check failed", "error", msg.err)
		m.lastError = msg.err
		m.pending = false
		return
	}
	// A result for text the player has since changed is stale.
	if msg.result.Word != m.input.Value() || msg.result.Category != m.category().Key() {
		return
	}

	result := msg.result
	m.result = &result
	m.pending = false
	m.checked++
}

func (m Model) category() model.Category {
	return m.categories[m.selected]
}

// Result returns the latest verdict, if any.
func (m Model) Result() (live.Result, bool) {
	if m.result == nil {
		return live.Result{}, false
	}
	return *m.result, true
}
