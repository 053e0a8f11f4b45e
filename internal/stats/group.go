package stats

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptyGroup is returned when statistics are requested for no samples.
var ErrEmptyGroup = errors.New("group has no samples")

// GroupStatistics describes the spread of the RD costs of one signature.
type GroupStatistics struct {
	// Count is the number of samples in the group (>= 1)
	Count int

	// Mean is the arithmetic mean of the costs
	Mean float64

	// StdDev is the population standard deviation (divisor Count)
	StdDev float64

	// CoV is the coefficient of variation, StdDev / Mean.
	// Zero when the group is Degenerate.
	CoV float64

	// Degenerate is set when Mean == 0. Costs are non-negative, so every
	// sample was 0 and there is no spread to report.
	Degenerate bool
}

// IsMultiSample reports whether the group had repeated, differing costs.
func (g GroupStatistics) IsMultiSample() bool {
	return g.Count > 1 && g.StdDev > 0
}

// ComputeGroupStatistics reduces a group's costs to its statistics.
func ComputeGroupStatistics(costs []float64) (GroupStatistics, error) {
	if len(costs) == 0 {
		return GroupStatistics{}, ErrEmptyGroup
	}

	mean, sd := stat.PopMeanStdDev(costs, nil)

	gs := GroupStatistics{
		Count:  len(costs),
		Mean:   mean,
		StdDev: sd,
	}
	if mean == 0 {
		gs.Degenerate = true
		return gs, nil
	}
	gs.CoV = sd / mean
	return gs, nil
}
