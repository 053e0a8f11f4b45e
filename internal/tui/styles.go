// Package tui provides an interactive terminal viewer for a finished
// repeatability analysis.
//
// The viewer uses Bubble Tea for the application framework and Lipgloss for
// styling. It displays:
//   - The corpus summary
//   - The cumulative CoV histogram on a log axis, with a movable cursor
//   - The multi-sample groups with the highest CoV
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorAccent    = lipgloss.Color("#F59E0B") // Amber

	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red

	colorText      = lipgloss.Color("#E5E7EB") // Light gray
	colorTextMuted = lipgloss.Color("#9CA3AF") // Medium gray
	colorTextDim   = lipgloss.Color("#6B7280") // Dark gray
	colorBorder    = lipgloss.Color("#374151") // Border gray
)

// =============================================================================
// Styles
// =============================================================================

var (
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(colorBorder)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			MarginTop(1)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	valueGoodStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	valueWarnStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	valueBadStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Width(22)

	barStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	cursorBarStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	axisStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// =============================================================================
// CoV Indicator
// =============================================================================

// CoV thresholds for coloring values.
const (
	CoVGood = 0.01
	CoVWarn = 0.05
)

// GetCoVStyle returns a style based on a coefficient of variation:
// below 1% is good, below 5% is a warning, anything else is bad.
func GetCoVStyle(cov float64) lipgloss.Style {
	switch {
	case cov < CoVGood:
		return valueGoodStyle
	case cov < CoVWarn:
		return valueWarnStyle
	default:
		return valueBadStyle
	}
}

// GetCoVLabel returns a styled CoV percentage.
func GetCoVLabel(cov float64) string {
	return GetCoVStyle(cov).Render(fmt.Sprintf("%.2f%%", cov*100))
}

// =============================================================================
// Helper Functions
// =============================================================================

// RenderKeyValue renders a label-value pair.
func RenderKeyValue(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		labelStyle.Render(label+":"),
		valueStyle.Render(value),
	)
}

// RenderProgressBar renders a fraction as a horizontal bar.
func RenderProgressBar(progress float64, width int) string {
	if width < 10 {
		width = 10
	}

	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return barStyle.Render(repeatChar('█', filled)) +
		axisStyle.Render(repeatChar('░', width-filled)) +
		valueStyle.Render(fmt.Sprintf(" %5.1f%%", progress*100))
}

func repeatChar(char rune, count int) string {
	if count <= 0 {
		return ""
	}
	result := make([]rune, count)
	for i := range result {
		result[i] = char
	}
	return string(result)
}
