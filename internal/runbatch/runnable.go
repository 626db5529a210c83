// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"

	"github.com/matt-FFFFFF/gpubatch/internal/progress"
)

// Runnable is something that can be run as part of a batch, either a command or a nested batch.
type Runnable interface {
	// Run executes the command or batch and returns its results.
	// It must honour context cancellation.
	Run(ctx context.Context) Results
	// InheritEnv adds environment variables that are not already set.
	InheritEnv(env map[string]string)
	// GetLabel returns the label of the command or batch.
	GetLabel() string
	// GetParent returns the enclosing batch, if any.
	GetParent() Runnable
	// SetParent sets the enclosing batch.
	SetParent(parent Runnable)
	// ShouldRun decides whether to run given the status of the previous sibling in a serial batch.
	ShouldRun(prev PreviousCommandStatus) ShouldRunAction
	// SetProgressReporter sets where lifecycle events are sent.
	SetProgressReporter(reporter progress.Reporter)
}

// Follower is implemented by runnables that need the result of the previous
// runnable in a SerialBatch, e.g. to depend on the job it submitted.
type Follower interface {
	Follow(prev *Result)
}
