package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/petit-bac/internal/cli"
	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderCategories(),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render(m.category().Hint()),
		"",
		m.input.View(),
		"",
		m.renderStatus(),
		"",
		m.help.View(m.keymap),
	}

	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.BacIcon + " Petit Bac")
	if m.config.Letter == "" {
		return title
	}
	letter := strings.ToUpper(common.Fold(m.config.Letter))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.theme.Bold.Render("Letter: "+letter),
	)
}

func (m Model) renderCategories() string {
	tabs := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		label := c.Icon() + " " + c.Label()
		if i == m.selected {
			tabs = append(tabs, m.theme.Selected.Render(label))
			continue
		}
		tabs = append(tabs, m.theme.Subtitle.Padding(0, 1).Render(label))
	}

	// Wrap tabs into rows that fit the box.
	maxWidth := m.width - 6
	var rows []string
	var row []string
	rowWidth := 0
	for _, tab := range tabs {
		w := lipgloss.Width(tab)
		if len(row) > 0 && maxWidth > 0 && rowWidth+w > maxWidth {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, tab)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderStatus() string {
	word := m.input.Value()
	if common.IsBlank(word) {
		return m.theme.StatusPending.Render("Waiting for a word...")
	}

	var lines []string
	if !StartsWithLetter(word, m.config.Letter) {
		letter := strings.ToUpper(common.Fold(m.config.Letter))
		lines = append(lines, m.theme.StatusError.Render(
			fmt.Sprintf("%s Does not start with %s", cli.ErrorIcon, letter)))
	}

	switch {
	case m.lastError != nil:
		lines = append(lines, m.theme.StatusError.Render(
			fmt.Sprintf("%s Check failed: %v", cli.ErrorIcon, m.lastError)))
	case m.pending:
		lines = append(lines, m.theme.StatusPending.Render(cli.PendingIcon+" Checking..."))
	case m.result != nil:
		lines = append(lines, m.renderOutcome(m.result.Outcome))
	}

	if m.checked > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Muted).
			Render(fmt.Sprintf("%d words checked", m.checked)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderOutcome(o model.ValidationOutcome) string {
	verdict := cli.VerdictLabel(o, m.config.Threshold)

	var line string
	switch {
	case o.Status == model.StatusValid && o.Confidence >= m.config.Threshold:
		line = m.theme.StatusSuccess.Render(cli.SuccessIcon + " " + verdict)
	case o.Status == model.StatusValid, o.Status == model.StatusUncertain:
		line = m.theme.StatusWarning.Render(cli.WarningIcon + " " + verdict)
	default:
		line = m.theme.StatusError.Render(cli.ErrorIcon + " " + verdict)
	}

	meta := lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render(fmt.Sprintf("%s · %.2f · %s", o.Source, o.Confidence, m.result.Elapsed.Round(time.Millisecond)))
	details := m.theme.Normal.Render(o.Details)
	return lipgloss.JoinVertical(lipgloss.Left, line+"  "+meta, details)
}
