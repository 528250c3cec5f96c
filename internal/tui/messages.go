package tui

import "github.com/Veraticus/petit-bac/internal/live"

// checkResultMsg carries the answer to one live check.
type checkResultMsg struct {
	err    error
	result live.Result
}
