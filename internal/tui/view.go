package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/randomizedcoder/rd-repeatability/internal/histogram"
	"github.com/randomizedcoder/rd-repeatability/internal/stats"
)

// yAxisWidth is the width of the histogram's y axis labels, tick included.
const yAxisWidth = 7

// partialBlocks are eighth-height bar caps, from empty to seven eighths.
var partialBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇'}

// =============================================================================
// Main Views
// =============================================================================

// renderHistogramView renders the summary and the CoV histogram.
func (m Model) renderHistogramView() string {
	sections := []string{
		m.renderHeader(),
		m.renderSummary(),
		m.renderHistogram(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderGroupsView renders the multi-sample groups ranked by CoV.
func (m Model) renderGroupsView() string {
	sections := []string{
		m.renderHeader(),
		m.renderGroups(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// Header
// =============================================================================

func (m Model) renderHeader() string {
	header := " rd-repeatability"
	if s := m.summary(); s != nil {
		header += fmt.Sprintf(" │ Groups: %d │ Multi-sample: %d (%.2f%%) ",
			s.UniqueSignatures, s.MultiSampleGroups, s.MultiSamplePercent)
	}
	return headerStyle.Width(m.width).Render(header)
}

func (m Model) summary() *stats.CorpusSummary {
	if m.result == nil {
		return nil
	}
	return m.result.Summary
}

// =============================================================================
// Summary
// =============================================================================

func (m Model) renderSummary() string {
	s := m.summary()
	if s == nil {
		return boxStyle.Width(m.width - 2).Render(mutedStyle.Render(stats.ErrNoData.Error()))
	}

	highest := "n/a"
	if hi, err := s.Highest(); err == nil {
		highest = GetCoVLabel(hi.Stats.CoV) + mutedStyle.Render(" at "+hi.Signature.Area.String())
	}

	lines := []string{
		RenderKeyValue("Mean CoV", GetCoVLabel(s.MeanCoV)),
		RenderKeyValue("Highest CoV", highest),
		RenderKeyValue("P50 / P90 / P99", fmt.Sprintf("%s / %s / %s",
			stats.FormatPercent(s.CoVP50), stats.FormatPercent(s.CoVP90), stats.FormatPercent(s.CoVP99))),
		RenderKeyValue("Multi-sample share", RenderProgressBar(s.MultiSamplePercent/100, m.width-40)),
	}

	return boxStyle.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// =============================================================================
// Histogram
// =============================================================================

func (m Model) renderHistogram() string {
	bins := m.bins()
	if len(bins) == 0 {
		return ""
	}

	title := "Cumulative CoV distribution (log scale)"
	if m.perBin {
		title = "CoV distribution per bin (log scale)"
	}

	values, top := barValues(bins, m.perBin)
	height := m.chartHeight()
	rows := renderBars(values, height, m.cursor)

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(axisStyle.Render(yLabel(i, height, top)))
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yAxisWidth-1) + "└" + strings.Repeat("─", len(bins))))
	b.WriteString("\n")
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yAxisWidth) + xLabels(bins)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render(title),
		b.String(),
		m.renderCursorInfo(bins),
	)
	return boxStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderCursorInfo(bins []histogram.Bin) string {
	bin := bins[m.cursor]
	return fmt.Sprintf("%s %s  %s %s  %s %s",
		mutedStyle.Render("CoV"),
		valueStyle.Render(fmt.Sprintf("[%s, %s]", formatCoV(bin.Min), formatCoV(bin.Max))),
		mutedStyle.Render("groups"),
		valueStyle.Render(fmt.Sprintf("%d (%.2f%%)", bin.Count, bin.Weight*100)),
		mutedStyle.Render("cumulative"),
		valueStyle.Render(fmt.Sprintf("%.2f%%", bin.Cumulative*100)),
	)
}

// barValues returns each bin's bar height as a fraction of the chart
// height, and the fraction of groups the top of the chart stands for.
func barValues(bins []histogram.Bin, perBin bool) ([]float64, float64) {
	values := make([]float64, len(bins))
	if !perBin {
		for i, b := range bins {
			values[i] = b.Cumulative
		}
		return values, 1
	}

	top := 0.0
	for _, b := range bins {
		if b.Weight > top {
			top = b.Weight
		}
	}
	if top == 0 {
		return values, 0
	}
	for i, b := range bins {
		values[i] = b.Weight / top
	}
	return values, top
}

// renderBars draws vertical bars, top row first. values are fractions of
// height in [0, 1]; the cursor column is highlighted.
func renderBars(values []float64, height, cursor int) []string {
	rows := make([]string, height)
	line := make([]rune, len(values))

	for r := 0; r < height; r++ {
		level := float64(height - r) // 1-based from the bottom
		for i, v := range values {
			cells := v * float64(height)
			switch {
			case cells >= level:
				line[i] = '█'
			case cells > level-1:
				line[i] = partialBlocks[int((cells-(level-1))*8)%len(partialBlocks)]
			default:
				line[i] = ' '
			}
		}

		if cursor < 0 || cursor >= len(line) {
			rows[r] = barStyle.Render(string(line))
			continue
		}
		cursorCell := line[cursor]
		if cursorCell == ' ' {
			cursorCell = '·'
		}
		rows[r] = barStyle.Render(string(line[:cursor])) +
			cursorBarStyle.Render(string(cursorCell)) +
			barStyle.Render(string(line[cursor+1:]))
	}
	return rows
}

// yLabel returns the y axis label for row r of height rows.
func yLabel(r, height int, top float64) string {
	var label string
	switch r {
	case 0:
		label = fmt.Sprintf("%.0f%%", top*100)
	case height / 2:
		label = fmt.Sprintf("%.0f%%", top*50)
	case height - 1:
		label = "0%"
	default:
		return strings.Repeat(" ", yAxisWidth-1) + "│"
	}
	return fmt.Sprintf("%*s┤", yAxisWidth-1, label+" ")
}

// xLabels places the first, middle and last bin edges under the axis.
func xLabels(bins []histogram.Bin) string {
	width := len(bins)
	line := []rune(strings.Repeat(" ", width))

	place := func(pos int, s string) {
		if pos+len(s) > width {
			pos = width - len(s)
		}
		if pos < 0 {
			pos = 0
		}
		for i, c := range s {
			if pos+i < width {
				line[pos+i] = c
			}
		}
	}

	place(0, formatCoV(bins[0].Min))
	mid := width / 2
	midLabel := formatCoV(bins[mid].Min)
	place(mid-len(midLabel)/2, midLabel)
	place(width, formatCoV(bins[width-1].Max))

	return string(line)
}

// formatCoV formats a CoV edge compactly, as a percentage.
func formatCoV(v float64) string {
	return fmt.Sprintf("%.3g%%", v*100)
}

// =============================================================================
// Groups
// =============================================================================

func (m Model) renderGroups() string {
	groups := m.topGroups()
	if len(groups) == 0 {
		return boxStyle.Width(m.width - 2).Render(
			mutedStyle.Render(stats.ErrNoMultiSampleGroups.Error()))
	}

	maxRows := m.height - 10
	if maxRows < 3 {
		maxRows = 3
	}

	start := m.groupsSkip
	if start >= len(groups) {
		start = len(groups) - 1
	}
	end := start + maxRows
	if end > len(groups) {
		end = len(groups)
	}

	lines := []string{sectionHeaderStyle.Render(
		fmt.Sprintf("Multi-sample groups by CoV (%d-%d of %d)", start+1, end, len(groups)))}

	textWidth := m.width - 6
	for i := start; i < end; i++ {
		g := groups[i]
		cov := GetCoVStyle(g.Stats.CoV).Render(fmt.Sprintf("%8s", stats.FormatPercent(g.Stats.CoV)))
		detail := fmt.Sprintf(" n=%-3d %s", g.Stats.Count, g.Signature)
		rank := fmt.Sprintf("%5d ", i+1)
		if room := textWidth - len(rank) - 8; room > 0 && len(detail) > room {
			detail = detail[:room]
		}
		lines = append(lines, dimStyle.Render(rank)+cov+detail)
	}

	return boxStyle.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// =============================================================================
// Footer
// =============================================================================

func (m Model) renderFooter() string {
	shortcuts := []string{"q: quit", "tab: groups", "c: cumulative/per-bin", "←/→: move"}
	if m.mode == viewGroups {
		shortcuts = []string{"q: quit", "tab: histogram", "↑/↓: scroll"}
	}

	right := "Input: " + m.inputPath
	if m.unmatchedLines > 0 {
		right = valueWarnStyle.Render(fmt.Sprintf("Unmatched IntraCost lines: %d", m.unmatchedLines))
	} else {
		maxLen := m.width - 60
		if len(right) > maxLen && maxLen > 10 {
			right = right[:maxLen-3] + "..."
		}
		right = dimStyle.Render(right)
	}

	room := m.width - lipgloss.Width(right) - 2
	left := dimStyle.Render(strings.Join(shortcuts, " │ "))
	if m.unmatchedLines > 0 {
		// The warning stays; shortcuts give way from the end
		for len(shortcuts) > 1 && lipgloss.Width(left) >= room {
			shortcuts = shortcuts[:len(shortcuts)-1]
			left = dimStyle.Render(strings.Join(shortcuts, " │ "))
		}
	}

	padding := room - lipgloss.Width(left)
	if padding < 1 {
		padding = 0
		if m.unmatchedLines == 0 {
			// Only the input path may be dropped
			right = ""
		}
	}

	return footerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Left,
			left,
			strings.Repeat(" ", padding),
			right,
		),
	)
}
