// Package histogram builds the cumulative, log-binned distribution of
// coefficients of variation that the plot and TUI sinks render.
//
// Values below a floor are clamped to it, so zero spread (CoV 0) shows up
// in the first bin instead of being lost on a log axis. Bin edges are
// log-spaced between the floor and the largest value, and every bin carries
// the fraction of all values that fall in it or in an earlier bin.
package histogram

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultFloor is the smallest CoV shown; smaller values are clamped.
	DefaultFloor = 1e-4

	// DefaultEdges is the number of log-spaced bin edges between the floor
	// and the largest value.
	DefaultEdges = 250

	// DefaultBins is the number of bins the default edges delimit.
	DefaultBins = DefaultEdges - 1
)

// ErrNoValues is returned when there is nothing to bin.
var ErrNoValues = errors.New("histogram: no values")

// Bin is one log-spaced bin.
type Bin struct {
	// Min and Max are the bin edges; Max is exclusive except for the last bin
	Min float64
	Max float64

	// Count is the number of values in this bin
	Count int

	// Weight is Count / Total
	Weight float64

	// Cumulative is the fraction of values in this bin or any earlier one
	Cumulative float64
}

// Histogram is a cumulative log-binned distribution.
type Histogram struct {
	Bins  []Bin
	Floor float64
	Max   float64
	Total int
}

// New bins values into n log-spaced bins from floor to max(values).
//
// When every value is at or below the floor, the histogram has a single
// bin [floor, floor] holding all values.
func New(values []float64, n int, floor float64) (*Histogram, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	if n < 1 {
		return nil, fmt.Errorf("histogram: bin count must be at least 1 (got %d)", n)
	}
	if floor <= 0 {
		return nil, fmt.Errorf("histogram: floor must be positive (got %v)", floor)
	}

	clamped := make([]float64, len(values))
	maxV := floor
	for i, v := range values {
		if v < floor || math.IsNaN(v) {
			v = floor
		}
		clamped[i] = v
		if v > maxV {
			maxV = v
		}
	}

	h := &Histogram{
		Floor: floor,
		Max:   maxV,
		Total: len(values),
	}

	if maxV == floor {
		n = 1
	}

	logMin := math.Log10(floor)
	logMax := math.Log10(maxV)
	step := (logMax - logMin) / float64(n)

	h.Bins = make([]Bin, n)
	for i := range h.Bins {
		h.Bins[i].Min = math.Pow(10, logMin+float64(i)*step)
		h.Bins[i].Max = math.Pow(10, logMin+float64(i+1)*step)
	}
	// Pin the outer edges; Pow round-trips are not exact.
	h.Bins[0].Min = floor
	h.Bins[n-1].Max = maxV

	for _, v := range clamped {
		h.Bins[h.bucketFor(v, logMin, step)].Count++
	}

	total := float64(h.Total)
	cumulative := 0
	for i := range h.Bins {
		cumulative += h.Bins[i].Count
		h.Bins[i].Weight = float64(h.Bins[i].Count) / total
		h.Bins[i].Cumulative = float64(cumulative) / total
	}

	return h, nil
}

// bucketFor returns the bin index for a clamped value.
func (h *Histogram) bucketFor(v, logMin, step float64) int {
	last := len(h.Bins) - 1
	if step == 0 {
		return 0
	}
	i := int((math.Log10(v) - logMin) / step)
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

// Downsample merges adjacent bins so that at most n remain. Cumulative
// fractions are preserved at the merged bins' upper edges. Used by the
// terminal viewer, which has fewer columns than bins.
func (h *Histogram) Downsample(n int) []Bin {
	if n < 1 || n >= len(h.Bins) {
		out := make([]Bin, len(h.Bins))
		copy(out, h.Bins)
		return out
	}

	out := make([]Bin, 0, n)
	per := float64(len(h.Bins)) / float64(n)
	for i := 0; i < n; i++ {
		start := int(math.Round(float64(i) * per))
		end := int(math.Round(float64(i+1) * per))
		if end > len(h.Bins) {
			end = len(h.Bins)
		}
		if start >= end {
			continue
		}
		merged := Bin{
			Min:        h.Bins[start].Min,
			Max:        h.Bins[end-1].Max,
			Cumulative: h.Bins[end-1].Cumulative,
		}
		for _, b := range h.Bins[start:end] {
			merged.Count += b.Count
			merged.Weight += b.Weight
		}
		out = append(out, merged)
	}
	return out
}
