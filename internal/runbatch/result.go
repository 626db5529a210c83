// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"slices"
)

// ErrResultChildrenHasError is set on a batch result when any child failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// ResultStatus is the outcome of a command or batch.
type ResultStatus int

const (
	// ResultStatusSuccess means the command or batch succeeded.
	ResultStatusSuccess ResultStatus = iota
	// ResultStatusError means the command or batch failed.
	ResultStatusError
	// ResultStatusSkipped means the command was not run.
	ResultStatusSkipped
	// ResultStatusUnknown is used while a result is being determined.
	ResultStatusUnknown
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the outcome of running a command or batch.
type Result struct {
	Label    string       // Label of the command or batch
	Status   ResultStatus // Outcome
	ExitCode int          // Process exit code, -1 if the process did not exit normally
	Error    error        // Error, if any
	StdOut   []byte       // Captured standard output
	StdErr   []byte       // Captured standard error
	JobID    string       // Scheduler job ID assigned to a submission
	Children Results      // Results of a batch's children
}

// Results is a list of results.
type Results []*Result

// HasError reports whether any result, or any of their children, failed.
// Skipped results are not failures in themselves.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Status == ResultStatusError {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Walk calls fn for every result in depth-first order.
func (r Results) Walk(fn func(*Result)) {
	for _, v := range r {
		fn(v)
		v.Children.Walk(fn)
	}
}

// JobIDs returns the job IDs of all submissions, in depth-first order.
func (r Results) JobIDs() []string {
	ids := make([]string, 0)

	r.Walk(func(res *Result) {
		if res.JobID != "" {
			ids = append(ids, res.JobID)
		}
	})

	return ids
}

// WriteText writes the results as an indented tree using the default options.
func (r Results) WriteText(w io.Writer) error {
	return writeTextResults(w, r, nil)
}

// WriteTextWithOptions writes the results as an indented tree.
func (r Results) WriteTextWithOptions(w io.Writer, options *OutputOptions) error {
	return writeTextResults(w, r, options)
}
