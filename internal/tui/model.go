package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/rd-repeatability/internal/histogram"
	"github.com/randomizedcoder/rd-repeatability/internal/stats"
)

// =============================================================================
// Model
// =============================================================================

// viewMode selects the main panel.
type viewMode int

const (
	viewHistogram viewMode = iota
	viewGroups
)

// Model represents the viewer state. The analysis is finished before the
// viewer starts, so the model never changes its data, only its view.
type Model struct {
	// Data
	inputPath      string
	result         *stats.Result
	hist           *histogram.Histogram
	unmatchedLines int

	// View state
	mode       viewMode
	perBin     bool // show per-bin share instead of cumulative
	cursor     int  // selected column in the histogram
	groupsSkip int  // first row shown in the groups view

	// Display options
	width  int
	height int

	quitting bool
}

// Config holds viewer configuration.
type Config struct {
	InputPath      string
	Result         *stats.Result
	Histogram      *histogram.Histogram
	UnmatchedLines int
}

// New creates a new viewer model.
func New(cfg Config) Model {
	return Model{
		inputPath:      cfg.InputPath,
		result:         cfg.Result,
		hist:           cfg.Histogram,
		unmatchedLines: cfg.UnmatchedLines,
		width:          80,
		height:         24,
	}
}

// =============================================================================
// Bubble Tea Interface
// =============================================================================

// Init initializes the model. Nothing runs in the background.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.mode == viewHistogram {
				m.mode = viewGroups
			} else {
				m.mode = viewHistogram
			}
		case "c":
			m.perBin = !m.perBin
		case "left", "h":
			m.moveCursor(-1)
		case "right", "l":
			m.moveCursor(1)
		case "home", "g":
			m.cursor = 0
			m.groupsSkip = 0
		case "end", "G":
			m.cursor = m.columns() - 1
		case "up", "k":
			if m.groupsSkip > 0 {
				m.groupsSkip--
			}
		case "down", "j":
			if m.groupsSkip < len(m.topGroups())-1 {
				m.groupsSkip++
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == viewGroups {
		return m.renderGroupsView()
	}
	return m.renderHistogramView()
}

// =============================================================================
// Cursor
// =============================================================================

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.columns()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// columns returns the number of histogram columns that fit the window.
func (m Model) columns() int {
	return len(m.bins())
}

// bins returns the histogram downsampled to the chart width.
func (m Model) bins() []histogram.Bin {
	if m.hist == nil {
		return nil
	}
	return m.hist.Downsample(m.chartWidth())
}

// chartWidth is the number of columns available for histogram bars.
func (m Model) chartWidth() int {
	w := m.width - yAxisWidth - 6 // box border and padding
	if w < 10 {
		w = 10
	}
	return w
}

// chartHeight is the number of rows available for histogram bars.
func (m Model) chartHeight() int {
	h := m.height - 14 // header, summary line, axis, cursor info, footer
	if h < 5 {
		h = 5
	}
	return h
}

// =============================================================================
// Accessors
// =============================================================================

// Cursor returns the selected histogram column.
func (m Model) Cursor() int {
	return m.cursor
}

// SelectedBin returns the histogram bin under the cursor.
func (m Model) SelectedBin() (histogram.Bin, bool) {
	bins := m.bins()
	if len(bins) == 0 {
		return histogram.Bin{}, false
	}
	return bins[m.cursor], true
}

// topGroups returns the multi-sample groups ordered by descending CoV.
func (m Model) topGroups() []stats.GroupResult {
	if m.result == nil {
		return nil
	}
	return stats.TopByCoV(m.result.Groups, -1)
}
