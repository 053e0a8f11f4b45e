package stats

import (
	"cmp"
	"errors"
	"slices"

	"github.com/influxdata/tdigest"
	"gonum.org/v1/gonum/stat"
)

// OriginRowStride weights the y coordinate when ordering areas by distance
// from the frame origin: key = x + OriginRowStride*y. It assumes a 480
// pixel wide frame and is not configurable.
const OriginRowStride = 480

var (
	// ErrNoData is returned when the input produced no groups at all.
	ErrNoData = errors.New("no data: input contained no matching RD cost lines")

	// ErrNoMultiSampleGroups is returned by the summary accessors when no
	// signature had more than one differing sample.
	ErrNoMultiSampleGroups = errors.New("no multi-sample groups found")
)

// CorpusSummary holds the corpus-level facts derived from all groups.
type CorpusSummary struct {
	// UniqueSignatures is the total number of groups
	UniqueSignatures int

	// TotalSamples is the number of cost samples across all groups
	TotalSamples int

	// MultiSampleGroups counts groups with Count > 1 and StdDev > 0
	MultiSampleGroups int

	// MultiSamplePercent is MultiSampleGroups / UniqueSignatures * 100
	MultiSamplePercent float64

	// MeanCoV averages the coefficient of variation over all groups,
	// not only the multi-sample ones
	MeanCoV float64

	// DegenerateGroups counts zero-mean groups (CoV reported as 0)
	DegenerateGroups int

	// CoV quantiles over all groups (t-digest estimates)
	CoVP50 float64
	CoVP90 float64
	CoVP99 float64

	highest *GroupResult
	nearest *GroupResult
}

// Highest returns the multi-sample group with the highest coefficient of
// variation. Ties go to the group encountered first.
func (s *CorpusSummary) Highest() (GroupResult, error) {
	if s.highest == nil {
		return GroupResult{}, ErrNoMultiSampleGroups
	}
	return *s.highest, nil
}

// Nearest returns the multi-sample group whose area has the smallest
// x + OriginRowStride*y. Ties go to the group encountered first.
func (s *CorpusSummary) Nearest() (GroupResult, error) {
	if s.nearest == nil {
		return GroupResult{}, ErrNoMultiSampleGroups
	}
	return *s.nearest, nil
}

// HasMultiSample reports whether any multi-sample group exists.
func (s *CorpusSummary) HasMultiSample() bool {
	return s.MultiSampleGroups > 0
}

// originKey orders areas by distance from the frame origin.
func originKey(r GroupResult) int {
	return r.Signature.Area.X + OriginRowStride*r.Signature.Area.Y
}

// Summarize reduces groups (in encounter order) to the corpus summary.
//
// Returns ErrNoData if groups is empty.
func Summarize(groups []GroupResult) (*CorpusSummary, error) {
	if len(groups) == 0 {
		return nil, ErrNoData
	}

	s := &CorpusSummary{
		UniqueSignatures: len(groups),
	}

	covs := make([]float64, len(groups))
	td := tdigest.NewWithCompression(100)

	for i := range groups {
		g := &groups[i]
		covs[i] = g.Stats.CoV
		td.Add(g.Stats.CoV, 1)
		s.TotalSamples += g.Stats.Count

		if g.Stats.Degenerate {
			s.DegenerateGroups++
		}
		if !g.Stats.IsMultiSample() {
			continue
		}

		s.MultiSampleGroups++
		// Strict comparisons keep the first-encountered group on ties.
		if s.highest == nil || g.Stats.CoV > s.highest.Stats.CoV {
			s.highest = g
		}
		if s.nearest == nil || originKey(*g) < originKey(*s.nearest) {
			s.nearest = g
		}
	}

	s.MultiSamplePercent = 100 * float64(s.MultiSampleGroups) / float64(s.UniqueSignatures)
	s.MeanCoV = stat.Mean(covs, nil)
	s.CoVP50 = td.Quantile(0.50)
	s.CoVP90 = td.Quantile(0.90)
	s.CoVP99 = td.Quantile(0.99)

	return s, nil
}

// TopByCoV returns up to n multi-sample groups ordered by descending
// coefficient of variation. Ties keep encounter order.
func TopByCoV(groups []GroupResult, n int) []GroupResult {
	var multi []GroupResult
	for _, g := range groups {
		if g.Stats.IsMultiSample() {
			multi = append(multi, g)
		}
	}
	slices.SortStableFunc(multi, func(a, b GroupResult) int {
		return cmp.Compare(b.Stats.CoV, a.Stats.CoV)
	})
	if n >= 0 && len(multi) > n {
		multi = multi[:n]
	}
	return multi
}
