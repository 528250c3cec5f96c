package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive checker and blocks until the player quits or
// ctx ends.
func Run(ctx context.Context, checker WordChecker, opts ...Option) error {
	if checker == nil {
		return fmt.Errorf("checker is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := tea.NewProgram(
		newModel(ctx, checker, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	defer checker.Cancel()

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
