package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// ParseFlags parses the process command line and returns a Config.
func ParseFlags() (*Config, error) {
	return ParseArgs(flag.CommandLine, os.Args[1:])
}

// ParseArgs parses args into a Config using fs.
// Returns an error if the flags cannot be parsed.
func ParseArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := DefaultConfig()

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, `rd-repeatability - repeatability analysis of encoder RD cost traces

Usage:
  rd-repeatability [flags] <RD_DUMP_FILE>

Report:
`)
		printFlagCategory(fs, []string{"dist", "bins"})

		fmt.Fprintf(out, "\nOutputs:\n")
		printFlagCategory(fs, []string{"tui", "plot", "chart", "metrics-file"})

		fmt.Fprintf(out, "\nObservability:\n")
		printFlagCategory(fs, []string{"v", "log-format", "log-level"})

		fmt.Fprintf(out, "\nDiagnostics:\n")
		printFlagCategory(fs, []string{"version"})

		fmt.Fprintf(out, `
Examples:
  # Summary plus interactive histogram
  rd-repeatability rd_dump.log

  # Batch mode: summary only, histogram saved as an image
  rd-repeatability -tui=false -plot cov.png rd_dump.log

  # Export results for the node_exporter textfile collector
  rd-repeatability -tui=false -metrics-file /var/lib/node_exporter/rd.prom rd_dump.log

`)
	}

	// Report
	fs.BoolVar(&cfg.ShowDistribution, "dist", cfg.ShowDistribution, "Print CoV quantiles after the summary")
	fs.IntVar(&cfg.Bins, "bins", cfg.Bins, "Number of log-spaced histogram bins")

	// Outputs
	fs.BoolVar(&cfg.TUIEnabled, "tui", cfg.TUIEnabled, "Show the interactive histogram viewer (skipped when stdout is not a terminal)")
	fs.StringVar(&cfg.PlotPath, "plot", cfg.PlotPath, "Save the histogram as an image (.png, .svg, .pdf, ...)")
	fs.StringVar(&cfg.ChartPath, "chart", cfg.ChartPath, "Save the histogram as an interactive HTML chart")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write results as Prometheus text exposition to this file")

	// Observability
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, `Log level: "debug", "info", "warn" or "error"`)

	// Diagnostics
	fs.BoolVar(&cfg.ShowVersion, "version", cfg.ShowVersion, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Positional argument: RD dump file
	if rest := fs.Args(); len(rest) >= 1 {
		cfg.InputPath = rest[0]
	}

	return cfg, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(fs *flag.FlagSet, names []string) {
	out := fs.Output()
	fs.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				printFlag(out, f)
				return
			}
		}
	})
}

func printFlag(out io.Writer, f *flag.Flag) {
	fmt.Fprintf(out, "  -%s %s\n    \t%s", f.Name, flagType(f), f.Usage)
	if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
		fmt.Fprintf(out, " (default %s)", f.DefValue)
	}
	fmt.Fprintln(out)
}

// flagType returns a type hint for the flag value.
func flagType(f *flag.Flag) string {
	switch f.DefValue {
	case "true", "false":
		return ""
	}

	if _, err := fmt.Sscanf(f.DefValue, "%d", new(int)); err == nil {
		return "int"
	}

	return "string"
}
