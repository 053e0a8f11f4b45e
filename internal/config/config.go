// Package config provides configuration management for rd-repeatability.
package config

import "github.com/randomizedcoder/rd-repeatability/internal/histogram"

// Config holds all configuration options for one analysis run.
type Config struct {
	// Input
	InputPath string `json:"input_path"`

	// Report
	ShowDistribution bool `json:"show_distribution"`
	Bins             int  `json:"bins"`

	// Outputs
	TUIEnabled  bool   `json:"tui_enabled"`
	PlotPath    string `json:"plot_path"`  // "" = no image
	ChartPath   string `json:"chart_path"` // "" = no HTML chart
	MetricsFile string `json:"metrics_file"`

	// Observability
	Verbose   bool   `json:"verbose"`
	LogFormat string `json:"log_format"` // json, text
	LogLevel  string `json:"log_level"`

	// Diagnostic modes
	ShowVersion bool `json:"show_version"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		// Report
		ShowDistribution: true,
		Bins:             histogram.DefaultBins,

		// Outputs
		TUIEnabled: true,

		// Observability
		Verbose:   false,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// WantsHistogram reports whether any output needs the CoV histogram.
// The TUI decision also depends on the terminal, which is checked by the
// caller.
func (c *Config) WantsHistogram() bool {
	return c.TUIEnabled || c.PlotPath != "" || c.ChartPath != ""
}
