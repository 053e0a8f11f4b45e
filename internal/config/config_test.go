package config

import (
	"bytes"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

// newFlagSet returns a silent FlagSet for parsing tests.
func newFlagSet() (*flag.FlagSet, *bytes.Buffer) {
	var out bytes.Buffer
	fs := flag.NewFlagSet("rd-repeatability", flag.ContinueOnError)
	fs.SetOutput(&out)
	return fs, &out
}

func TestFlagType(t *testing.T) {
	testCases := []struct {
		name     string
		defValue string
		expected string
	}{
		{"bool true", "true", ""},
		{"bool false", "false", ""},
		{"int", "250", "int"},
		{"string", "text", "string"},
		{"empty", "", "string"},
		{"zero", "0", "int"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := &flag.Flag{Name: "test", DefValue: tc.defValue}
			if result := flagType(f); result != tc.expected {
				t.Errorf("flagType(%q) = %q, want %q", tc.defValue, result, tc.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Bins != 249 {
		t.Errorf("Bins = %d, want 249", cfg.Bins)
	}
	if !cfg.TUIEnabled {
		t.Error("TUIEnabled should be true by default")
	}
	if !cfg.ShowDistribution {
		t.Error("ShowDistribution should be true by default")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.PlotPath != "" || cfg.ChartPath != "" || cfg.MetricsFile != "" {
		t.Error("file outputs should be disabled by default")
	}
}

func TestParseArgs(t *testing.T) {
	dir := t.TempDir()
	fs, _ := newFlagSet()

	cfg, err := ParseArgs(fs, []string{
		"-tui=false",
		"-bins", "100",
		"-plot", filepath.Join(dir, "cov.png"),
		"-chart", filepath.Join(dir, "cov.html"),
		"-metrics-file", filepath.Join(dir, "rd.prom"),
		"-log-format", "json",
		"-v",
		"trace.log",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}

	if cfg.InputPath != "trace.log" {
		t.Errorf("InputPath = %q, want trace.log", cfg.InputPath)
	}
	if cfg.TUIEnabled {
		t.Error("TUIEnabled should be false")
	}
	if cfg.Bins != 100 {
		t.Errorf("Bins = %d, want 100", cfg.Bins)
	}
	if cfg.LogFormat != "json" || !cfg.Verbose {
		t.Errorf("LogFormat = %q, Verbose = %v", cfg.LogFormat, cfg.Verbose)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("parsed config should be valid: %v", err)
	}
}

func TestParseArgs_NoArgs(t *testing.T) {
	fs, _ := newFlagSet()
	cfg, err := ParseArgs(fs, nil)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.InputPath != "" {
		t.Errorf("InputPath = %q, want empty", cfg.InputPath)
	}
}

func TestParseArgs_BadFlag(t *testing.T) {
	fs, _ := newFlagSet()
	if _, err := ParseArgs(fs, []string{"-bins", "many"}); err == nil {
		t.Error("expected error for non-integer -bins")
	}
}

func TestParseArgs_Usage(t *testing.T) {
	fs, out := newFlagSet()
	if _, err := ParseArgs(fs, []string{"-h"}); err != flag.ErrHelp {
		t.Fatalf("ParseArgs(-h) error = %v, want flag.ErrHelp", err)
	}

	usage := out.String()
	for _, want := range []string{"Usage:", "Outputs:", "-metrics-file", "(default 249)", "<RD_DUMP_FILE>"} {
		if !strings.Contains(usage, want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputPath = "trace.log"

	if err := Validate(cfg); err != nil {
		t.Errorf("Valid config should not error: %v", err)
	}
}

func TestValidate_VersionAllowsNoInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowVersion = true

	if err := Validate(cfg); err != nil {
		t.Errorf("-version without input should be valid: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"missing input", func(c *Config) { c.InputPath = "" }, "input_path"},
		{"zero bins", func(c *Config) { c.Bins = 0 }, "bins"},
		{"too many bins", func(c *Config) { c.Bins = MaxBins + 1 }, "bins"},
		{"plot extension", func(c *Config) { c.PlotPath = filepath.Join(dir, "cov.gif") }, "plot"},
		{"plot directory", func(c *Config) { c.PlotPath = filepath.Join(dir, "missing", "cov.png") }, "plot"},
		{"chart extension", func(c *Config) { c.ChartPath = filepath.Join(dir, "cov.png") }, "chart"},
		{"metrics directory", func(c *Config) { c.MetricsFile = filepath.Join(dir, "missing", "rd.prom") }, "metrics_file"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.InputPath = "trace.log"
			tc.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("Error should mention %s: %v", tc.field, err)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bins = 0
	cfg.LogFormat = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected multiple errors")
	}

	errStr := err.Error()
	for _, field := range []string{"input_path", "bins", "log_format"} {
		if !strings.Contains(errStr, field) {
			t.Errorf("Error should mention %s", field)
		}
	}
}

func TestWantsHistogram(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.WantsHistogram() {
		t.Error("default config (TUI on) should want a histogram")
	}

	cfg.TUIEnabled = false
	if cfg.WantsHistogram() {
		t.Error("no outputs should not want a histogram")
	}

	cfg.ChartPath = "cov.html"
	if !cfg.WantsHistogram() {
		t.Error("chart output should want a histogram")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "bins", Message: "must be at least 1"}
	if got := err.Error(); got != "bins: must be at least 1" {
		t.Errorf("Error string = %q, want %q", got, "bins: must be at least 1")
	}
}
