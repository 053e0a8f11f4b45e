// Package main provides the rd-repeatability CLI entry point.
//
// rd-repeatability reads an encoder RD dump, groups the intra-prediction
// costs by their parameter signature and reports how repeatable the costs
// are across re-evaluations of the same candidate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/rd-repeatability/internal/chart"
	"github.com/randomizedcoder/rd-repeatability/internal/config"
	"github.com/randomizedcoder/rd-repeatability/internal/histogram"
	"github.com/randomizedcoder/rd-repeatability/internal/logging"
	"github.com/randomizedcoder/rd-repeatability/internal/metrics"
	"github.com/randomizedcoder/rd-repeatability/internal/preflight"
	"github.com/randomizedcoder/rd-repeatability/internal/stats"
	"github.com/randomizedcoder/rd-repeatability/internal/timeseries"
	"github.com/randomizedcoder/rd-repeatability/internal/tui"
)

// progressInterval is how often a long analysis pass logs its progress.
const progressInterval = 5 * time.Second

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/rd-repeatability
var version = "dev"

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	os.Exit(run(fs, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one analysis and returns the process exit code.
func run(fs *flag.FlagSet, args []string, stdout, stderr io.Writer) int {
	fs.SetOutput(stderr)
	cfg, err := config.ParseArgs(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	if cfg.ShowVersion {
		fmt.Fprintf(stdout, "rd-repeatability %s\n", version)
		return 0
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger := logging.NewLoggerWithWriter(stderr, cfg.LogFormat, level)
	logging.SetDefault(logger)

	logger.Info("starting", "version", version, "input", cfg.InputPath, "bins", cfg.Bins)

	// Preflight checks
	terminal := isTerminal(stdout)
	checks := preflight.RunAll(preflight.Options{
		InputPath: cfg.InputPath,
		Outputs: map[string]string{
			"plot":         cfg.PlotPath,
			"chart":        cfg.ChartPath,
			"metrics_file": cfg.MetricsFile,
		},
		TUIRequested: cfg.TUIEnabled,
		Terminal:     terminal,
	})
	if !checks.Passed || cfg.Verbose {
		preflight.PrintResults(stderr, checks)
	}
	if !checks.Passed {
		return 1
	}
	for _, w := range checks.Warnings() {
		logger.Debug("preflight_warning", "check", w.Name, "message", w.Message)
	}

	// Analysis
	res, tracker, read, err := analyze(cfg.InputPath, logger)
	if err != nil {
		logger.Error("analysis_failed", "input", cfg.InputPath, "error", err)
		return 1
	}

	fmt.Fprint(stdout, stats.FormatReport(res, stats.ReportConfig{
		InputPath:        cfg.InputPath,
		ShowDistribution: cfg.ShowDistribution,
	}))

	// Outputs
	exitCode := 0
	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg, res, tracker.Count(), read); err != nil {
			logger.Error("metrics_write_failed", "path", cfg.MetricsFile, "error", err)
			exitCode = 1
		} else {
			logger.Info("metrics_written", "path", cfg.MetricsFile)
		}
	}

	useTUI := cfg.TUIEnabled && terminal
	if !cfg.WantsHistogram() || len(res.Groups) == 0 {
		return exitCode
	}

	h, err := histogram.New(res.CoVs(), cfg.Bins, histogram.DefaultFloor)
	if err != nil {
		logger.Error("histogram_failed", "error", err)
		return 1
	}

	labels := chart.DefaultLabels()
	if cfg.PlotPath != "" {
		if err := chart.SaveImage(h, labels, cfg.PlotPath); err != nil {
			logger.Error("plot_write_failed", "path", cfg.PlotPath, "error", err)
			exitCode = 1
		} else {
			logger.Info("plot_written", "path", cfg.PlotPath)
		}
	}

	if cfg.ChartPath != "" {
		subtitle := fmt.Sprintf("%s: %d groups, %d multi-sample", cfg.InputPath,
			res.Summary.UniqueSignatures, res.Summary.MultiSampleGroups)
		if err := chart.SaveHTML(h, labels, subtitle, cfg.ChartPath); err != nil {
			logger.Error("chart_write_failed", "path", cfg.ChartPath, "error", err)
			exitCode = 1
		} else {
			logger.Info("chart_written", "path", cfg.ChartPath)
		}
	}

	if useTUI {
		model := tui.New(tui.Config{
			InputPath:      cfg.InputPath,
			Result:         res,
			Histogram:      h,
			UnmatchedLines: tracker.Count(),
		})
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			logger.Error("tui_failed", "error", err)
			return 1
		}
	}

	return exitCode
}

// analyze runs the analysis pass over the input file. An input without
// matching lines is not an error: the result then has no groups.
func analyze(path string, logger *slog.Logger) (*stats.Result, *logging.UnmatchedTracker, timeseries.ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, timeseries.ReadStats{}, err
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}

	reads := timeseries.NewReadTracker(size)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		reads.Run(ctx, progressInterval, func(st timeseries.ReadStats) {
			logger.Info("read_progress",
				"bytes_read", st.BytesRead,
				"percent", st.Fraction*100,
				"bytes_per_second", st.Rate10s,
			)
		})
	}()

	tracker := logging.NewUnmatchedTracker(logger)
	res, err := stats.AggregateLines(reads.Reader(f), logger, tracker)
	cancel()
	<-done
	tracker.LogSummary()

	read := reads.Stats()
	logger.Debug("read_throughput",
		"bytes_read", read.BytesRead,
		"elapsed", read.Elapsed,
		"bytes_per_second", read.RateOverall,
	)

	if err != nil && !errors.Is(err, stats.ErrNoData) {
		return nil, nil, read, err
	}
	return res, tracker, read, nil
}

// writeMetrics records the run on a private registry and writes it as a
// node_exporter textfile.
func writeMetrics(cfg *config.Config, res *stats.Result, nearMisses int, read timeseries.ReadStats) error {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollectorWithRegistry(metrics.CollectorConfig{
		Version:   version,
		InputPath: cfg.InputPath,
	}, registry)

	collector.RecordResult(res)
	collector.RecordNearMisses(nearMisses)
	collector.RecordThroughput(read.RateOverall, read.Elapsed.Seconds())
	collector.SetTimestamp(float64(time.Now().Unix()))

	return metrics.WriteTextfile(cfg.MetricsFile, registry)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
