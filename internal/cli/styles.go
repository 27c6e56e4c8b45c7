// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmorriss/ledgerscope/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7AA2F7")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)
)

// FormatAmount renders a signed amount with its direction color: income
// teal, expenses red.
func FormatAmount(amount float64) string {
	formatted := fmt.Sprintf("$%.2f", amount)
	if amount < 0 {
		return ErrorStyle.Render(formatted)
	}
	return SuccessStyle.Render(formatted)
}

// FormatConfidence renders a 0-100 confidence with its qualitative color.
func FormatConfidence(score float64, level model.ConfidenceLevel) string {
	formatted := fmt.Sprintf("%.0f%% %s", score, level)
	switch level {
	case model.ConfidenceHigh:
		return SuccessStyle.Render(formatted)
	case model.ConfidenceMedium:
		return WarningStyle.Render(formatted)
	default:
		return SubtleStyle.Render(formatted)
	}
}
