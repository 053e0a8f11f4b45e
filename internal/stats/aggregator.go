// Package stats groups RD cost samples by parameter signature and reduces
// them to repeatability statistics.
//
// This file implements the Aggregator, which owns the grouping map for the
// whole analysis pass. Groups are kept in first-encounter order so that
// every "first one wins" tie-break in the summary is deterministic.
package stats

import (
	"log/slog"

	"github.com/randomizedcoder/rd-repeatability/internal/parser"
)

// GroupResult is one signature with its raw costs and statistics.
type GroupResult struct {
	Signature parser.Signature
	Costs     []float64
	Stats     GroupStatistics
}

// group is the aggregator's internal per-signature record.
type group struct {
	signature parser.Signature
	costs     []float64
}

// Aggregator groups cost samples by signature.
//
// Not safe for concurrent use.
type Aggregator struct {
	index  map[parser.Signature]int
	groups []*group

	samples int64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		index: make(map[parser.Signature]int),
	}
}

// Add appends a sample's cost to its signature's group, creating the group
// on first sight.
func (a *Aggregator) Add(s parser.CostSample) {
	a.samples++

	if i, ok := a.index[s.Signature]; ok {
		a.groups[i].costs = append(a.groups[i].costs, s.Cost)
		return
	}

	a.index[s.Signature] = len(a.groups)
	a.groups = append(a.groups, &group{
		signature: s.Signature,
		costs:     []float64{s.Cost},
	})
}

// GroupCount returns the number of unique signatures seen.
func (a *Aggregator) GroupCount() int {
	return len(a.groups)
}

// SampleCount returns the number of samples added.
func (a *Aggregator) SampleCount() int64 {
	return a.samples
}

// Signatures returns the signatures in first-encounter order.
func (a *Aggregator) Signatures() []parser.Signature {
	sigs := make([]parser.Signature, len(a.groups))
	for i, g := range a.groups {
		sigs[i] = g.signature
	}
	return sigs
}

// Costs returns a copy of the costs recorded for sig, in append order.
// Returns nil if the signature was never seen.
func (a *Aggregator) Costs(sig parser.Signature) []float64 {
	i, ok := a.index[sig]
	if !ok {
		return nil
	}
	costs := make([]float64, len(a.groups[i].costs))
	copy(costs, a.groups[i].costs)
	return costs
}

// Compute reduces every group to its statistics, in first-encounter order.
//
// Degenerate groups (mean 0) are logged at warn level. A nil logger is
// allowed.
func (a *Aggregator) Compute(logger *slog.Logger) []GroupResult {
	results := make([]GroupResult, 0, len(a.groups))
	degenerate := 0

	for _, g := range a.groups {
		// Groups are created with one cost, so this cannot fail.
		gs, _ := ComputeGroupStatistics(g.costs)
		if gs.Degenerate {
			degenerate++
			if logger != nil {
				logger.Debug("degenerate_group", "signature", g.signature.String(), "count", gs.Count)
			}
		}

		costs := make([]float64, len(g.costs))
		copy(costs, g.costs)
		results = append(results, GroupResult{
			Signature: g.signature,
			Costs:     costs,
			Stats:     gs,
		})
	}

	if degenerate > 0 && logger != nil {
		logger.Warn("degenerate_groups",
			"count", degenerate,
			"policy", "coefficient of variation reported as 0 for zero-mean groups",
		)
	}

	return results
}
