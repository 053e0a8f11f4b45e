package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/randomizedcoder/rd-repeatability/internal/chart"
	"github.com/randomizedcoder/rd-repeatability/internal/logging"
)

// MaxBins caps the histogram bin count.
const MaxBins = 100_000

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	// Input file is required (unless -version)
	if cfg.InputPath == "" && !cfg.ShowVersion {
		errs = append(errs, ValidationError{
			Field:   "input_path",
			Message: "RD dump file is required",
		})
	}

	if cfg.Bins < 1 || cfg.Bins > MaxBins {
		errs = append(errs, ValidationError{
			Field:   "bins",
			Message: fmt.Sprintf("must be between 1 and %d (got %d)", MaxBins, cfg.Bins),
		})
	}

	if cfg.PlotPath != "" {
		if !chart.SupportedImage(cfg.PlotPath) {
			errs = append(errs, ValidationError{
				Field: "plot",
				Message: fmt.Sprintf("unsupported image extension %q (want one of %s)",
					filepath.Ext(cfg.PlotPath), strings.Join(chart.ImageExtensions, ", ")),
			})
		}
		if err := validateOutputDir(cfg.PlotPath); err != nil {
			errs = append(errs, ValidationError{Field: "plot", Message: err.Error()})
		}
	}

	if cfg.ChartPath != "" {
		ext := strings.ToLower(filepath.Ext(cfg.ChartPath))
		if ext != ".html" && ext != ".htm" {
			errs = append(errs, ValidationError{
				Field:   "chart",
				Message: fmt.Sprintf("must end in .html (got %q)", cfg.ChartPath),
			})
		}
		if err := validateOutputDir(cfg.ChartPath); err != nil {
			errs = append(errs, ValidationError{Field: "chart", Message: err.Error()})
		}
	}

	if cfg.MetricsFile != "" {
		if err := validateOutputDir(cfg.MetricsFile); err != nil {
			errs = append(errs, ValidationError{Field: "metrics_file", Message: err.Error()})
		}
	}

	// Log format must be valid
	if !logging.ValidFormat(cfg.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: debug, info, warn, error (got %q)", cfg.LogLevel),
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// validateOutputDir checks that the directory of an output path exists.
func validateOutputDir(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", dir)
	}
	return nil
}
