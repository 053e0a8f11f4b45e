// Package preflight provides startup validation checks.
//
// Config validation catches malformed settings. Preflight checks the
// environment: that the dump can actually be opened and that every output
// directory accepts new files, so a long analysis pass does not fail at the
// very end.
package preflight

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Check represents the result of a single preflight check.
type Check struct {
	Name    string // Name of the check
	Passed  bool   // Whether the check passed
	Warning bool   // True if it's a warning (non-fatal)
	Message string // Additional context
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// Options describes what the run is going to read and write.
type Options struct {
	// InputPath is the RD dump to analyse
	InputPath string

	// Outputs maps an output name (plot, chart, metrics_file) to its path.
	// Empty paths are skipped.
	Outputs map[string]string

	// TUIRequested and Terminal decide the tui check
	TUIRequested bool
	Terminal     bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
	} else if c.Warning {
		status = "⚠"
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// Warnings returns the checks that passed with a warning.
func (r *Result) Warnings() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Passed && c.Warning {
			out = append(out, c)
		}
	}
	return out
}

// RunAll executes all preflight checks.
func RunAll(opts Options) *Result {
	result := &Result{
		Checks: make([]Check, 0, 2+len(opts.Outputs)),
		Passed: true,
	}
	add := func(c Check) {
		result.Checks = append(result.Checks, c)
		if !c.Passed {
			result.Passed = false
		}
	}

	add(checkInputFile(opts.InputPath))

	// Stable order for output
	names := make([]string, 0, len(opts.Outputs))
	for name, path := range opts.Outputs {
		if path != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		add(checkOutputDir(name, opts.Outputs[name]))
	}

	if opts.TUIRequested {
		add(checkTerminal(opts.Terminal))
	}

	return result
}

// checkInputFile verifies the dump exists, is readable and is not a
// directory. An empty file passes with a warning.
func checkInputFile(path string) Check {
	c := Check{Name: "input_file"}

	info, err := os.Stat(path)
	if err != nil {
		c.Message = err.Error()
		return c
	}
	if info.IsDir() {
		c.Message = fmt.Sprintf("%s is a directory", path)
		return c
	}

	f, err := os.Open(path)
	if err != nil {
		c.Message = err.Error()
		return c
	}
	f.Close()

	c.Passed = true
	switch {
	case info.Mode().IsRegular() && info.Size() == 0:
		c.Warning = true
		c.Message = fmt.Sprintf("%s is empty", path)
	case info.Mode().IsRegular():
		c.Message = fmt.Sprintf("%s (%d bytes)", path, info.Size())
	default:
		// FIFO or device: the size is not known up front
		c.Message = fmt.Sprintf("%s (%s)", path, info.Mode().Type())
	}
	return c
}

// checkOutputDir verifies a file can be created next to path.
func checkOutputDir(name, path string) Check {
	c := Check{Name: "output_" + name}
	dir := filepath.Dir(path)

	f, err := os.CreateTemp(dir, ".rd-repeatability-preflight-*")
	if err != nil {
		c.Message = fmt.Sprintf("cannot write to %s: %v", dir, err)
		return c
	}
	tmp := f.Name()
	f.Close()
	os.Remove(tmp)

	c.Passed = true
	c.Message = fmt.Sprintf("%s writable", dir)
	return c
}

// checkTerminal warns when the viewer was requested but stdout is not a
// terminal. The run continues without it.
func checkTerminal(terminal bool) Check {
	if terminal {
		return Check{Name: "tui", Passed: true, Message: "stdout is a terminal"}
	}
	return Check{
		Name:    "tui",
		Passed:  true,
		Warning: true,
		Message: "stdout is not a terminal, viewer disabled",
	}
}

// PrintResults prints the preflight check results to w.
func PrintResults(w io.Writer, result *Result) {
	fmt.Fprintln(w, "Preflight checks:")
	for _, check := range result.Checks {
		fmt.Fprintln(w, check.String())
		if !check.Passed {
			fmt.Fprintf(w, "    Fix: %s\n", suggestFix(check.Name))
		}
	}
	fmt.Fprintln(w)
}

// suggestFix returns a suggestion for fixing a failed check.
func suggestFix(name string) string {
	switch name {
	case "input_file":
		return "pass the path of an encoder RD dump (IntraCost lines)"
	case "output_plot", "output_chart", "output_metrics_file":
		return "create the directory or fix its permissions"
	default:
		return "see rd-repeatability -h"
	}
}
