package stats

import (
	"errors"
	"io"
	"log/slog"

	"github.com/randomizedcoder/rd-repeatability/internal/parser"
)

// Result is the outcome of one analysis pass.
type Result struct {
	// Groups in first-encounter order
	Groups []GroupResult

	// Summary is nil when the input had no matching lines
	Summary *CorpusSummary

	// Input accounting
	BytesRead    int64
	LinesRead    int64
	LinesMatched int64
	LinesSkipped int64
}

// CoVs returns every group's coefficient of variation in group order.
func (r *Result) CoVs() []float64 {
	covs := make([]float64, len(r.Groups))
	for i, g := range r.Groups {
		covs[i] = g.Stats.CoV
	}
	return covs
}

// AggregateLines runs the whole analysis pass over src: parse every line,
// group matches by signature, compute per-group statistics and the corpus
// summary.
//
// Unparsable lines are skipped. Read errors are returned as-is. When no
// line matched, the returned error is ErrNoData and the Result still
// carries the input accounting. nearMiss and logger may be nil.
func AggregateLines(src io.Reader, logger *slog.Logger, nearMiss parser.NearMissHandler) (*Result, error) {
	agg := NewAggregator()
	lp := parser.NewRDLineParser(agg.Add, nearMiss)
	reader := parser.NewReader(logger)

	if err := reader.Run(src, lp); err != nil {
		return nil, err
	}

	res := &Result{}
	res.BytesRead, res.LinesRead = reader.Stats()
	_, res.LinesMatched, res.LinesSkipped = lp.Stats()

	if logger != nil {
		logger.Info("parse_complete",
			"lines_read", res.LinesRead,
			"lines_matched", res.LinesMatched,
			"lines_skipped", res.LinesSkipped,
			"unique_signatures", agg.GroupCount(),
		)
	}

	res.Groups = agg.Compute(logger)

	summary, err := Summarize(res.Groups)
	if err != nil {
		if errors.Is(err, ErrNoData) && logger != nil {
			logger.Warn("no_data", "lines_read", res.LinesRead)
		}
		return res, err
	}
	res.Summary = summary

	if !summary.HasMultiSample() && logger != nil {
		logger.Warn("no_multi_sample_groups", "unique_signatures", summary.UniqueSignatures)
	}

	return res, nil
}
