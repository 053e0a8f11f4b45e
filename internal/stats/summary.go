// This file implements the report formatter which displays the corpus
// summary at the end of a run.

package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ReportConfig holds configuration for report formatting.
type ReportConfig struct {
	// InputPath is the dump file that was analysed
	InputPath string

	// ShowDistribution adds the CoV quantile block
	ShowDistribution bool
}

const (
	reportRule    = "═══════════════════════════════════════════════════════════════════════════════\n"
	reportSubRule = "───────────────────────────────────────────────────────────────────────────────\n"
)

// FormatReport formats the result of an analysis pass for the console.
//
// The report always contains the three summary sentences: corpus totals,
// highest coefficient of variation and the multi-sample signature nearest
// the origin. When there is no data, or no multi-sample group, the affected
// sentences are replaced by the matching error message.
func FormatReport(res *Result, cfg ReportConfig) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(reportRule)
	b.WriteString("                         rd-repeatability Summary\n")
	b.WriteString(reportRule + "\n")

	if cfg.InputPath != "" {
		fmt.Fprintf(&b, "Input:                  %s\n", cfg.InputPath)
	}
	if res != nil {
		fmt.Fprintf(&b, "Lines Read:             %s (%s)\n", FormatNumber(res.LinesRead), FormatBytes(res.BytesRead))
		fmt.Fprintf(&b, "Lines Matched:          %s\n", FormatNumber(res.LinesMatched))
		fmt.Fprintf(&b, "Lines Skipped:          %s\n\n", FormatNumber(res.LinesSkipped))
	}

	if res == nil || res.Summary == nil {
		fmt.Fprintf(&b, "%s\n\n", ErrNoData)
		b.WriteString(reportRule)
		return b.String()
	}

	s := res.Summary
	b.WriteString(reportSubRule)
	b.WriteString("                                Repeatability\n")
	b.WriteString(reportSubRule + "\n")

	fmt.Fprintf(&b, "Out of %d unique parameters, %d (%.2f%%) had multiple results. The average coefficient of variation was %.2f%%\n\n",
		s.UniqueSignatures,
		s.MultiSampleGroups,
		s.MultiSamplePercent,
		100*s.MeanCoV,
	)

	if highest, err := s.Highest(); err == nil {
		fmt.Fprintf(&b, "The highest coefficient of variation was %.2f%%, for the parameters %s. These results were %s\n\n",
			100*highest.Stats.CoV,
			highest.Signature,
			FormatCosts(highest.Costs),
		)
	} else {
		fmt.Fprintf(&b, "Insufficient data: %s; the highest coefficient of variation is undefined\n\n", err)
	}

	if nearest, err := s.Nearest(); err == nil {
		fmt.Fprintf(&b, "The unique parameters nearest the origin with multiple results were: %s %s\n\n",
			nearest.Signature,
			FormatGroupStatistics(nearest.Stats),
		)
	} else {
		fmt.Fprintf(&b, "Insufficient data: %s; no signature nearest the origin to report\n\n", err)
	}

	if cfg.ShowDistribution {
		b.WriteString(reportSubRule)
		b.WriteString("                         Coefficient of Variation\n")
		b.WriteString(reportSubRule + "\n")

		fmt.Fprintf(&b, "  P50:                  %s\n", FormatPercent(s.CoVP50))
		fmt.Fprintf(&b, "  P90:                  %s\n", FormatPercent(s.CoVP90))
		fmt.Fprintf(&b, "  P99:                  %s\n", FormatPercent(s.CoVP99))
		fmt.Fprintf(&b, "  Samples:              %s\n", FormatNumber(int64(s.TotalSamples)))
		if s.DegenerateGroups > 0 {
			fmt.Fprintf(&b, "  Zero-mean groups:     %d (reported as 0%%)\n", s.DegenerateGroups)
		}
		b.WriteString("\n")
	}

	b.WriteString(reportRule)
	return b.String()
}

// =============================================================================
// Formatting Helper Functions (exported for reuse)
// =============================================================================

// FormatCost formats a cost the way the encoder dump tooling prints floats:
// shortest representation, always with a fractional part.
func FormatCost(c float64) string {
	var s string
	abs := math.Abs(c)
	if abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(c, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(c, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatCosts formats a list of costs as [a, b, c].
func FormatCosts(costs []float64) string {
	parts := make([]string, len(costs))
	for i, c := range costs {
		parts[i] = FormatCost(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatGroupStatistics formats a group's statistics on one line.
func FormatGroupStatistics(gs GroupStatistics) string {
	return fmt.Sprintf("(count=%d, mean=%s, sd=%s, cov=%s)",
		gs.Count, FormatCost(gs.Mean), FormatCost(gs.StdDev), FormatPercent(gs.CoV))
}

// FormatPercent formats a fraction as a percentage with two decimals.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", 100*f)
}

// FormatNumber formats a number with K/M suffixes for readability.
func FormatNumber(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

// FormatBytes formats bytes with KB/MB/GB suffixes.
func FormatBytes(n int64) string {
	if n >= 1_000_000_000 {
		return fmt.Sprintf("%.2f GB", float64(n)/1_000_000_000)
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.2f MB", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.2f KB", float64(n)/1_000)
	}
	return fmt.Sprintf("%d B", n)
}
