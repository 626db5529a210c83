// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/gpubatch/internal/color"
)

// OutputOptions controls what is included in the text output.
type OutputOptions struct {
	IncludeStdOut      bool // Include captured stdout
	IncludeStdErr      bool // Include captured stderr
	ShowSuccessDetails bool // Include output of successful commands as well as failed ones
}

// DefaultOutputOptions returns the options used by WriteText.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdOut:      false,
		IncludeStdErr:      true,
		ShowSuccessDetails: false,
	}
}

func writeTextResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, r := range results {
		if err := writeResultWithIndent(w, r, "", options); err != nil {
			return err
		}
	}

	return nil
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	var mark string

	var markColour color.Code

	switch r.Status {
	case ResultStatusSuccess:
		mark, markColour = "✓", color.FgGreen
	case ResultStatusSkipped:
		mark, markColour = "~", color.FgYellow
	case ResultStatusError:
		mark, markColour = "✗", color.FgRed
	default:
		mark, markColour = "?", color.FgWhite
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	line := strings.Builder{}
	line.WriteString(indent)
	line.WriteString(color.Colorize(mark, markColour))
	line.WriteString(" ")
	line.WriteString(color.Colorize(label, color.Bold, markColour))

	if r.JobID != "" {
		line.WriteString(" (job " + r.JobID + ")")
	}

	if r.ExitCode != 0 {
		fmt.Fprintf(&line, " (exit code: %d)", r.ExitCode)
	}

	line.WriteString("\n")

	// The children carry the details of a batch failure.
	if r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		line.WriteString(indent + "  " + color.Colorize("➜ Error:", markColour) + " " + r.Error.Error() + "\n")
	}

	showDetails := len(r.Children) == 0 && (r.Status == ResultStatusError || options.ShowSuccessDetails)

	if showDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		line.WriteString(indent + "  ➜ Output:\n")
		line.WriteString(formatOutput(r.StdOut, indent+"     "))
	}

	if showDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		line.WriteString(indent + "  " + color.Colorize("➜ Error Output:", color.FgHiRed) + "\n")
		line.WriteString(formatOutput(r.StdErr, indent+"     "))
	}

	if _, err := io.WriteString(w, line.String()); err != nil {
		return err //nolint:wrapcheck
	}

	for _, child := range r.Children {
		if err := writeResultWithIndent(w, child, indent+"  ", options); err != nil {
			return err
		}
	}

	return nil
}

// formatOutput indents each line of output, dropping a trailing empty line.
func formatOutput(output []byte, indent string) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")

	sb := strings.Builder{}
	sb.Grow(len(output) + len(lines)*(len(indent)+1))

	for _, line := range lines {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
