// Package parser provides parsing for encoder RD (rate-distortion) dumps.
//
// This file implements the intra-cost line parser. The encoder emits one
// line per evaluated intra-prediction candidate:
//
//	IntraCost T [x=0,y=0,w=4,h=4] 12.5 (0,-1,0,0,0,0)
//
// The bracketed part is the block area, followed by the RD cost and the six
// prediction parameters in this order:
//
//	intra_mode, isp_mode, multi_ref_idx, mip_flag, lfnst_idx, mts_flag
//
// Only isp_mode can be negative. Matching is anchored at the start of the
// line; anything after the closing parenthesis is ignored.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LinePrefix is the literal every RD cost line starts with.
const LinePrefix = "IntraCost T ["

// intraCostPattern mirrors the encoder's printf format. The cost and
// isp_mode classes are deliberately loose ([\d.]+ and [\d-]+); tokens that
// match the class but do not convert are rejected in Parse.
var intraCostPattern = regexp.MustCompile(
	`^` + regexp.QuoteMeta(LinePrefix) +
		`x=(\d+),y=(\d+),w=(\d+),h=(\d+)\] ([\d.]+) \((\d+),([\d-]+),(\d+),(\d+),(\d+),(\d+)\)`,
)

// Area is a block rectangle. It is comparable and used as part of a map key.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String renders the area as [x, y, w, h].
func (a Area) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d]", a.X, a.Y, a.Width, a.Height)
}

// Signature identifies one encoding configuration for one block position.
//
// All fields take part in equality, so a Signature can be used directly as
// a map key for grouping.
type Signature struct {
	Area        Area
	IntraMode   int
	ISPMode     int
	MultiRefIdx int
	MIPFlag     int
	LFNSTIdx    int
	MTSFlag     int
}

// String renders the signature for reports.
func (s Signature) String() string {
	return fmt.Sprintf("{area=%s intra_mode=%d isp_mode=%d multi_ref_idx=%d mip_flag=%d lfnst_idx=%d mts_flag=%d}",
		s.Area, s.IntraMode, s.ISPMode, s.MultiRefIdx, s.MIPFlag, s.LFNSTIdx, s.MTSFlag)
}

// CostSample is one parsed line: a signature and its RD cost.
type CostSample struct {
	Signature Signature
	Cost      float64
}

// Parse converts one line into a CostSample.
//
// Returns false if the line does not start with a well-formed intra-cost
// record. A false result is expected for mixed-content logs and is not an
// error.
func Parse(line string) (CostSample, bool) {
	// Most lines of a mixed log are other encoder output
	if !strings.HasPrefix(line, LinePrefix) {
		return CostSample{}, false
	}

	m := intraCostPattern.FindStringSubmatch(line)
	if m == nil {
		return CostSample{}, false
	}

	var ints [10]int
	intGroups := [10]int{1, 2, 3, 4, 6, 7, 8, 9, 10, 11}
	for i, g := range intGroups {
		v, err := strconv.Atoi(m[g])
		if err != nil {
			// "1-2" for isp_mode, or an overflowing value
			return CostSample{}, false
		}
		ints[i] = v
	}

	cost, err := strconv.ParseFloat(m[5], 64)
	if err != nil {
		// "1.2.3" and friends
		return CostSample{}, false
	}

	return CostSample{
		Signature: Signature{
			Area:        Area{X: ints[0], Y: ints[1], Width: ints[2], Height: ints[3]},
			IntraMode:   ints[4],
			ISPMode:     ints[5],
			MultiRefIdx: ints[6],
			MIPFlag:     ints[7],
			LFNSTIdx:    ints[8],
			MTSFlag:     ints[9],
		},
		Cost: cost,
	}, true
}

// Format renders a sample in the encoder's line format.
//
// Parse(Format(s)) returns s for any sample whose fields, other than
// ISPMode, are non-negative and whose cost is finite and non-negative.
func Format(s CostSample) string {
	sig := s.Signature
	return fmt.Sprintf("IntraCost T [x=%d,y=%d,w=%d,h=%d] %s (%d,%d,%d,%d,%d,%d)",
		sig.Area.X, sig.Area.Y, sig.Area.Width, sig.Area.Height,
		strconv.FormatFloat(s.Cost, 'f', -1, 64),
		sig.IntraMode, sig.ISPMode, sig.MultiRefIdx, sig.MIPFlag, sig.LFNSTIdx, sig.MTSFlag,
	)
}
