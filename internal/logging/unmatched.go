package logging

import (
	"log/slog"
	"strings"
	"sync"
)

const (
	// MaxLineLength is the maximum length of a kept line before truncation.
	MaxLineLength = 4096

	// MaxBufferedLines is the number of recent unmatched lines kept.
	MaxBufferedLines = 100
)

// Reasons a line mentioning IntraCost failed to parse.
const (
	ReasonPrefix    = "unexpected_prefix"
	ReasonArea      = "malformed_area"
	ReasonModes     = "malformed_modes"
	ReasonCostValue = "malformed_cost"
)

// UnmatchedTracker records lines that mention IntraCost but did not parse
// as cost records. These usually point at a trace format change or a
// truncated write, so the run reports them instead of dropping them
// silently. It implements parser.NearMissHandler.
type UnmatchedTracker struct {
	logger *slog.Logger

	mu      sync.Mutex
	buffer  []string
	bufIdx  int
	total   int
	reasons map[string]int
}

// NewUnmatchedTracker creates a tracker that logs each line at debug level.
func NewUnmatchedTracker(logger *slog.Logger) *UnmatchedTracker {
	return &UnmatchedTracker{
		logger:  logger,
		buffer:  make([]string, MaxBufferedLines),
		reasons: make(map[string]int),
	}
}

// HandleLine records one unmatched line.
func (t *UnmatchedTracker) HandleLine(line string) {
	if len(line) > MaxLineLength {
		line = line[:MaxLineLength] + "...(truncated)"
	}
	reason := classifyLine(line)

	t.mu.Lock()
	t.buffer[t.bufIdx] = line
	t.bufIdx = (t.bufIdx + 1) % MaxBufferedLines
	t.total++
	t.reasons[reason]++
	t.mu.Unlock()

	if t.logger != nil {
		t.logger.Debug("unmatched_line", "reason", reason, "line", line)
	}
}

// classifyLine guesses which part of the record is malformed.
func classifyLine(line string) string {
	open := strings.Index(line, "[")
	closeIdx := strings.Index(line, "]")

	switch {
	case !strings.HasPrefix(line, "IntraCost T ["):
		return ReasonPrefix
	case closeIdx < open || !strings.Contains(line[open:closeIdx+1], "h="):
		return ReasonArea
	case !strings.Contains(line[closeIdx:], "(") || !strings.HasSuffix(strings.TrimSpace(line), ")"):
		return ReasonModes
	default:
		return ReasonCostValue
	}
}

// Count returns the number of unmatched lines seen.
func (t *UnmatchedTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Reasons returns unmatched line counts by reason.
func (t *UnmatchedTracker) Reasons() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int, len(t.reasons))
	for k, v := range t.reasons {
		out[k] = v
	}
	return out
}

// RecentLines returns up to n of the most recent unmatched lines, oldest
// first.
func (t *UnmatchedTracker) RecentLines(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n > MaxBufferedLines {
		n = MaxBufferedLines
	}

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (t.bufIdx - n + i + MaxBufferedLines) % MaxBufferedLines
		if t.buffer[idx] != "" {
			lines = append(lines, t.buffer[idx])
		}
	}
	return lines
}

// LogSummary emits one warning when any unmatched lines were seen.
func (t *UnmatchedTracker) LogSummary() {
	if t.logger == nil {
		return
	}
	count := t.Count()
	if count == 0 {
		return
	}

	args := []any{"count", count}
	for reason, n := range t.Reasons() {
		args = append(args, reason, n)
	}
	if recent := t.RecentLines(1); len(recent) == 1 {
		args = append(args, "last", recent[0])
	}
	t.logger.Warn("unmatched_lines", args...)
}
