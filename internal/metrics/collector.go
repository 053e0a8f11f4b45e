// Package metrics exports the results of a repeatability run as Prometheus
// metrics.
//
// A run is a one-shot batch job, so metrics are written once to a file in
// text exposition format (the node_exporter textfile collector convention)
// instead of being served over HTTP.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/rd-repeatability/internal/histogram"
	"github.com/randomizedcoder/rd-repeatability/internal/stats"
)

const namespace = "rd_repeatability"

// CoVBuckets are the upper bounds of the CoV histogram: 1e-4 up to 10,
// four buckets per decade.
var CoVBuckets = prometheus.ExponentialBucketsRange(histogram.DefaultFloor, 10, 21)

// Collector holds the metrics for one run.
type Collector struct {
	info *prometheus.GaugeVec

	bytesRead      prometheus.Counter
	linesRead      prometheus.Counter
	linesMatched   prometheus.Counter
	linesSkipped   prometheus.Counter
	nearMissLines  prometheus.Counter
	uniqueGroups   prometheus.Gauge
	samples        prometheus.Gauge
	multiSample    prometheus.Gauge
	multiRatio     prometheus.Gauge
	degenerate     prometheus.Gauge
	meanCoV        prometheus.Gauge
	highestCoV     prometheus.Gauge
	covQuantile    *prometheus.GaugeVec
	covHistogram   prometheus.Histogram
	readRate       prometheus.Gauge
	readDuration   prometheus.Gauge
	lastRunSeconds prometheus.Gauge
}

// CollectorConfig holds the static labels of the info metric.
type CollectorConfig struct {
	Version   string
	InputPath string
}

// NewCollector creates a collector registered with the default registry.
func NewCollector(cfg CollectorConfig) *Collector {
	return NewCollectorWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector registered with registry.
func NewCollectorWithRegistry(cfg CollectorConfig, registry prometheus.Registerer) *Collector {
	c := &Collector{
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "info",
			Help:      "Information about the run (value always 1)",
		}, []string{"version", "input"}),

		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Bytes read from the trace",
		}),
		linesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Lines read from the trace",
		}),
		linesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_matched_total",
			Help:      "Lines parsed as cost records",
		}),
		linesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_skipped_total",
			Help:      "Lines that did not match the cost record grammar",
		}),
		nearMissLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "near_miss_lines_total",
			Help:      "Skipped lines that mention IntraCost",
		}),

		uniqueGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unique_signatures",
			Help:      "Distinct parameter signatures",
		}),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "samples",
			Help:      "Cost samples across all groups",
		}),
		multiSample: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "multi_sample_groups",
			Help:      "Groups with more than one sample and nonzero spread",
		}),
		multiRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "multi_sample_ratio",
			Help:      "Fraction of groups that are multi-sample (0.0 to 1.0)",
		}),
		degenerate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "degenerate_groups",
			Help:      "Groups with zero mean cost, reported with CoV 0",
		}),
		meanCoV: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_cov",
			Help:      "Mean coefficient of variation over all groups",
		}),
		highestCoV: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "highest_cov",
			Help:      "Highest coefficient of variation (NaN if no multi-sample group)",
		}),
		covQuantile: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cov_quantile",
			Help:      "Coefficient of variation quantiles over all groups",
		}, []string{"quantile"}),
		covHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cov",
			Help:      "Distribution of per-group coefficient of variation",
			Buckets:   CoVBuckets,
		}),
		readRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "read_bytes_per_second",
			Help:      "Average read rate of the analysis pass",
		}),
		readDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "read_duration_seconds",
			Help:      "Wall time of the analysis pass",
		}),
		lastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the results were recorded",
		}),
	}

	registry.MustRegister(
		c.info,
		c.bytesRead,
		c.linesRead,
		c.linesMatched,
		c.linesSkipped,
		c.nearMissLines,
		c.uniqueGroups,
		c.samples,
		c.multiSample,
		c.multiRatio,
		c.degenerate,
		c.meanCoV,
		c.highestCoV,
		c.covQuantile,
		c.covHistogram,
		c.readRate,
		c.readDuration,
		c.lastRunSeconds,
	)

	c.info.WithLabelValues(cfg.Version, cfg.InputPath).Set(1)
	c.highestCoV.Set(math.NaN())

	return c
}

// RecordResult sets every result metric from res. Call it once per run.
func (c *Collector) RecordResult(res *stats.Result) {
	if res == nil {
		return
	}

	c.bytesRead.Add(float64(res.BytesRead))
	c.linesRead.Add(float64(res.LinesRead))
	c.linesMatched.Add(float64(res.LinesMatched))
	c.linesSkipped.Add(float64(res.LinesSkipped))

	for _, g := range res.Groups {
		c.covHistogram.Observe(g.Stats.CoV)
	}

	s := res.Summary
	if s == nil {
		return
	}

	c.uniqueGroups.Set(float64(s.UniqueSignatures))
	c.samples.Set(float64(s.TotalSamples))
	c.multiSample.Set(float64(s.MultiSampleGroups))
	c.multiRatio.Set(s.MultiSamplePercent / 100)
	c.degenerate.Set(float64(s.DegenerateGroups))
	c.meanCoV.Set(s.MeanCoV)

	if hi, err := s.Highest(); err == nil {
		c.highestCoV.Set(hi.Stats.CoV)
	}

	c.covQuantile.WithLabelValues("0.5").Set(s.CoVP50)
	c.covQuantile.WithLabelValues("0.9").Set(s.CoVP90)
	c.covQuantile.WithLabelValues("0.99").Set(s.CoVP99)
}

// RecordNearMisses adds n skipped lines that looked like cost records.
func (c *Collector) RecordNearMisses(n int) {
	if n > 0 {
		c.nearMissLines.Add(float64(n))
	}
}

// RecordThroughput records the read rate and duration of the analysis pass.
func (c *Collector) RecordThroughput(bytesPerSecond, seconds float64) {
	c.readRate.Set(bytesPerSecond)
	c.readDuration.Set(seconds)
}

// SetTimestamp records when the results were produced, in Unix seconds.
func (c *Collector) SetTimestamp(unixSeconds float64) {
	c.lastRunSeconds.Set(unixSeconds)
}
