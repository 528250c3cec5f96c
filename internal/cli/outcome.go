package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/petit-bac/internal/model"
)

// VerdictLabel is the word shown to players for an outcome. A VALID outcome
// below threshold is shown as provisional.
func VerdictLabel(o model.ValidationOutcome, threshold float64) string {
	switch o.Status {
	case model.StatusValid:
		if o.Confidence < threshold {
			return "accepted (low confidence)"
		}
		return "accepted"
	case model.StatusInvalid:
		return "rejected"
	case model.StatusUncertain:
		return "provisionally accepted"
	default:
		return "error"
	}
}

// FormatOutcome renders one validation result for the terminal.
func FormatOutcome(category model.Category, word string, o model.ValidationOutcome, threshold float64) string {
	head := fmt.Sprintf("%s %s: %s", category.Icon(), category.Label(), word)
	verdict := VerdictLabel(o, threshold)
	meta := SubtleStyle.Render(fmt.Sprintf("(%s, confidence %.2f)", o.Source, o.Confidence))

	var line string
	switch {
	case o.Status == model.StatusValid && o.Confidence >= threshold:
		line = FormatSuccess(verdict)
	case o.Status == model.StatusValid, o.Status == model.StatusUncertain:
		line = FormatWarning(verdict)
	default:
		line = FormatError(verdict)
	}

	var b strings.Builder
	b.WriteString(BoldStyle.Render(head))
	b.WriteString("\n")
	b.WriteString(line + " " + meta)
	if o.Details != "" {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render("  " + o.Details))
	}
	return b.String()
}
