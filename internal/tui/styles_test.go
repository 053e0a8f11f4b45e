package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGetCoVStyle(t *testing.T) {
	tests := []struct {
		name string
		cov  float64
		want lipgloss.Style
	}{
		{"zero", 0, valueGoodStyle},
		{"below good", 0.005, valueGoodStyle},
		{"at good", CoVGood, valueWarnStyle},
		{"below warn", 0.03, valueWarnStyle},
		{"at warn", CoVWarn, valueBadStyle},
		{"large", 0.5, valueBadStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetCoVStyle(tt.cov)
			if got.GetForeground() != tt.want.GetForeground() {
				t.Errorf("GetCoVStyle(%v) foreground = %v, want %v",
					tt.cov, got.GetForeground(), tt.want.GetForeground())
			}
		})
	}
}

func TestGetCoVLabel(t *testing.T) {
	if got := GetCoVLabel(0.0123); !strings.Contains(got, "1.23%") {
		t.Errorf("GetCoVLabel(0.0123) = %q, want 1.23%%", got)
	}
}

func TestRenderKeyValue(t *testing.T) {
	got := RenderKeyValue("Mean CoV", "1.00%")
	if !strings.Contains(got, "Mean CoV:") || !strings.Contains(got, "1.00%") {
		t.Errorf("RenderKeyValue = %q", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		progress   float64
		width      int
		wantFilled int
		wantEmpty  int
		wantLabel  string
	}{
		{"empty", 0, 20, 0, 20, "0.0%"},
		{"half", 0.5, 20, 10, 10, "50.0%"},
		{"full", 1, 20, 20, 0, "100.0%"},
		{"over", 1.5, 20, 20, 0, "150.0%"},
		{"negative", -0.1, 20, 0, 20, "-10.0%"},
		{"min width", 0.5, 4, 5, 5, "50.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgressBar(tt.progress, tt.width)
			if n := strings.Count(got, "█"); n != tt.wantFilled {
				t.Errorf("filled = %d, want %d", n, tt.wantFilled)
			}
			if n := strings.Count(got, "░"); n != tt.wantEmpty {
				t.Errorf("empty = %d, want %d", n, tt.wantEmpty)
			}
			if !strings.Contains(got, tt.wantLabel) {
				t.Errorf("RenderProgressBar = %q, want label %q", got, tt.wantLabel)
			}
		})
	}
}

func TestRepeatChar(t *testing.T) {
	tests := []struct {
		char  rune
		count int
		want  string
	}{
		{'x', 3, "xxx"},
		{'█', 2, "██"},
		{'x', 0, ""},
		{'x', -1, ""},
	}
	for _, tt := range tests {
		if got := repeatChar(tt.char, tt.count); got != tt.want {
			t.Errorf("repeatChar(%q, %d) = %q, want %q", tt.char, tt.count, got, tt.want)
		}
	}
}
