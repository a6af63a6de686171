// Package display renders intarr results and diagnostics for the CLI.
//
// Results always go to the writer passed in (stdout in production) without
// any coloring, so that the "Input:"/"Output:" lines stay byte-exact.
// Diagnostics written to stderr are colorized with fatih/color.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

// WriteSummary renders summary in the requested format.
func WriteSummary(w io.Writer, summary *types.Summary, format types.OutputFormat) error {
	switch format {
	case types.OutputText, "":
		_, err := fmt.Fprintf(w, "Input: %s\nOutput: %s\n", summary.Input, summary.Output)
		return err
	case types.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintUsage writes the invocation help for program.
func PrintUsage(w io.Writer, program string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(w, "Usage: %s \"input_string\" [o|a|d]\n", program)
	fmt.Fprintf(w, "Example: %s \"5; 2; 5; 5; 6; 6; 10\" o\n", program)
	fmt.Fprintln(w, "Order types:")
	fmt.Fprintln(w, "  o - Original order")
	fmt.Fprintln(w, "  a - Ascending order")
	fmt.Fprintln(w, "  d - Descending order")
}

// PrintError writes a one-line diagnostic: "Error <operation>: <err>", or
// "Error: <err>" when operation is empty.
func PrintError(w io.Writer, operation string, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error")
	if operation != "" {
		fmt.Fprint(w, " "+operation)
	}
	fmt.Fprintf(w, ": %v\n", err)
}
