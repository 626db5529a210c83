// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
)

// RunCondition decides whether a step of a serial batch runs, given how the previous step ended.
type RunCondition int

const (
	// RunOnSuccess runs only if the previous step succeeded. A chained submission uses this.
	RunOnSuccess RunCondition = iota
	// RunOnAlways runs regardless of the previous step.
	RunOnAlways
)

// ShouldRunAction is the outcome of Runnable.ShouldRun.
type ShouldRunAction int

const (
	// ShouldRunActionRun means run the step.
	ShouldRunActionRun ShouldRunAction = iota
	// ShouldRunActionSkip means skip the step without error.
	ShouldRunActionSkip
	// ShouldRunActionError means skip the step because an earlier one failed.
	ShouldRunActionError
)

var (
	// ErrSkipIntentional marks a step that was skipped on purpose.
	ErrSkipIntentional = errors.New("intentionally skip execution")
	// ErrSkipOnError marks a step that was skipped because an earlier step failed.
	ErrSkipOnError = errors.New("skip execution due to previous error")
)

// String implements fmt.Stringer.
func (r RunCondition) String() string {
	switch r {
	case RunOnSuccess:
		return "success"
	case RunOnAlways:
		return "always"
	default:
		return "unknown"
	}
}
