package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/rd-repeatability/internal/histogram"
	"github.com/randomizedcoder/rd-repeatability/internal/stats"
)

// testDump has two multi-sample groups, one repeated group without spread
// and one single-sample group.
const testDump = `IntraCost T [x=0,y=0,w=4,h=4] 100 (0,-1,0,0,0,0)
IntraCost T [x=0,y=0,w=4,h=4] 110 (0,-1,0,0,0,0)
IntraCost T [x=4,y=0,w=4,h=4] 50 (1,0,0,0,0,0)
IntraCost T [x=4,y=0,w=4,h=4] 50.5 (1,0,0,0,0,0)
IntraCost T [x=8,y=0,w=4,h=4] 20 (2,0,0,0,0,0)
IntraCost T [x=8,y=0,w=4,h=4] 20 (2,0,0,0,0,0)
IntraCost T [x=0,y=4,w=8,h=8] 7 (3,0,0,0,0,0)
`

// newTestModel builds a viewer over testDump.
func newTestModel(t *testing.T) Model {
	t.Helper()

	res, err := stats.AggregateLines(strings.NewReader(testDump), nil, nil)
	if err != nil {
		t.Fatalf("AggregateLines: %v", err)
	}
	h, err := histogram.New(res.CoVs(), histogram.DefaultBins, histogram.DefaultFloor)
	if err != nil {
		t.Fatalf("histogram.New: %v", err)
	}

	return New(Config{
		InputPath: "trace.log",
		Result:    res,
		Histogram: h,
	})
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

// =============================================================================
// Tests: New / Init
// =============================================================================

func TestNew(t *testing.T) {
	m := New(Config{InputPath: "trace.log", UnmatchedLines: 3})

	if m.inputPath != "trace.log" {
		t.Errorf("inputPath = %q, want trace.log", m.inputPath)
	}
	if m.unmatchedLines != 3 {
		t.Errorf("unmatchedLines = %d, want 3", m.unmatchedLines)
	}
	if m.width != 80 || m.height != 24 {
		t.Errorf("size = %dx%d, want 80x24", m.width, m.height)
	}
	if m.mode != viewHistogram {
		t.Errorf("mode = %v, want histogram view", m.mode)
	}
}

func TestModel_Init(t *testing.T) {
	if cmd := New(Config{}).Init(); cmd != nil {
		t.Error("Init() should not start any command")
	}
}

// =============================================================================
// Tests: Update - Key Messages
// =============================================================================

func TestModel_Update_QuitKeys(t *testing.T) {
	tests := []struct {
		key      string
		wantQuit bool
	}{
		{"q", true},
		{"ctrl+c", true},
		{"esc", true},
		{"c", false},
		{"x", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, cmd := update(t, newTestModel(t), keyMsg(tt.key))

			if m.quitting != tt.wantQuit {
				t.Errorf("quitting = %v, want %v", m.quitting, tt.wantQuit)
			}
			if tt.wantQuit && cmd == nil {
				t.Error("quit key should return tea.Quit")
			}
			if !tt.wantQuit && cmd != nil {
				t.Error("non-quit key should not return a command")
			}
		})
	}
}

func TestModel_Update_Toggles(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, keyMsg("tab"))
	if m.mode != viewGroups {
		t.Errorf("after tab: mode = %v, want groups view", m.mode)
	}
	m, _ = update(t, m, keyMsg("tab"))
	if m.mode != viewHistogram {
		t.Errorf("after second tab: mode = %v, want histogram view", m.mode)
	}

	m, _ = update(t, m, keyMsg("c"))
	if !m.perBin {
		t.Error("c should switch to per-bin view")
	}
	m, _ = update(t, m, keyMsg("c"))
	if m.perBin {
		t.Error("second c should switch back to cumulative view")
	}
}

func TestModel_Update_CursorMovement(t *testing.T) {
	m := newTestModel(t)
	last := m.columns() - 1
	if last < 1 {
		t.Fatalf("columns = %d, want several", m.columns())
	}

	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"left at start stays", []string{"left"}, 0},
		{"right moves", []string{"right", "l"}, 2},
		{"right then left", []string{"right", "right", "h"}, 1},
		{"end jumps to last", []string{"end"}, last},
		{"G jumps to last", []string{"G"}, last},
		{"right at end stays", []string{"end", "right"}, last},
		{"home returns", []string{"end", "home"}, 0},
		{"g returns", []string{"end", "g"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm := m
			for _, k := range tt.keys {
				mm, _ = update(t, mm, keyMsg(k))
			}
			if mm.Cursor() != tt.want {
				t.Errorf("Cursor() = %d, want %d", mm.Cursor(), tt.want)
			}
		})
	}
}

func TestModel_Update_GroupsScroll(t *testing.T) {
	m := newTestModel(t)
	groups := len(m.topGroups())
	if groups != 2 {
		t.Fatalf("topGroups = %d, want 2", groups)
	}

	m, _ = update(t, m, keyMsg("up"))
	if m.groupsSkip != 0 {
		t.Errorf("up at top: groupsSkip = %d, want 0", m.groupsSkip)
	}

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, keyMsg("down"))
	}
	if m.groupsSkip != groups-1 {
		t.Errorf("groupsSkip = %d, want %d", m.groupsSkip, groups-1)
	}

	m, _ = update(t, m, keyMsg("k"))
	if m.groupsSkip != groups-2 {
		t.Errorf("after k: groupsSkip = %d, want %d", m.groupsSkip, groups-2)
	}
}

// =============================================================================
// Tests: Update - Window Size
// =============================================================================

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})

	if m.width != 200 || m.height != 50 {
		t.Errorf("size = %dx%d, want 200x50", m.width, m.height)
	}

	m, _ = update(t, m, keyMsg("end"))
	wide := m.Cursor()

	// Shrinking keeps the cursor inside the narrower chart
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	if m.Cursor() >= m.columns() {
		t.Errorf("Cursor() = %d, columns = %d", m.Cursor(), m.columns())
	}
	if m.Cursor() >= wide {
		t.Errorf("cursor should move left on shrink: %d >= %d", m.Cursor(), wide)
	}
}

// =============================================================================
// Tests: Layout
// =============================================================================

func TestModel_ChartSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"default", 80, 24, 80 - yAxisWidth - 6, 10},
		{"tiny", 10, 5, 10, 5},
		{"large", 200, 60, 200 - yAxisWidth - 6, 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{width: tt.width, height: tt.height}
			if got := m.chartWidth(); got != tt.wantW {
				t.Errorf("chartWidth() = %d, want %d", got, tt.wantW)
			}
			if got := m.chartHeight(); got != tt.wantH {
				t.Errorf("chartHeight() = %d, want %d", got, tt.wantH)
			}
		})
	}
}

func TestModel_SelectedBin(t *testing.T) {
	if _, ok := New(Config{}).SelectedBin(); ok {
		t.Error("SelectedBin without a histogram should report false")
	}

	m := newTestModel(t)
	m, _ = update(t, m, keyMsg("end"))
	bin, ok := m.SelectedBin()
	if !ok {
		t.Fatal("SelectedBin should report true")
	}
	if bin.Cumulative != 1 {
		t.Errorf("last bin Cumulative = %v, want 1", bin.Cumulative)
	}
}

func TestModel_TopGroups(t *testing.T) {
	groups := newTestModel(t).topGroups()
	for i := 1; i < len(groups); i++ {
		if groups[i].Stats.CoV > groups[i-1].Stats.CoV {
			t.Errorf("groups not in descending CoV order at %d", i)
		}
	}
	if New(Config{}).topGroups() != nil {
		t.Error("topGroups without a result should be nil")
	}
}
