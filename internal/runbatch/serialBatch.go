// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"

	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
	"github.com/matt-FFFFFF/gpubatch/internal/progress"
)

var _ Runnable = (*SerialBatch)(nil)

// SerialBatch runs its commands one after another.
// Children implementing Follower are given the result of the previous child before they run.
type SerialBatch struct {
	*BaseCommand
	Commands []Runnable
}

// NewSerialBatch creates a SerialBatch and sets itself as the parent of cmds.
func NewSerialBatch(base *BaseCommand, cmds ...Runnable) *SerialBatch {
	b := &SerialBatch{BaseCommand: base, Commands: cmds}
	for _, c := range cmds {
		c.SetParent(b)
	}

	return b
}

// Run implements Runnable.
func (b *SerialBatch) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "SerialBatch").
		With("label", FullLabel(b))

	b.Report(b, progress.EventStarted, "starting serial batch", nil)

	results := make(Results, 0, len(b.Commands))
	prevState := PreviousCommandStatus{State: ResultStatusSuccess}

	var prev *Result

	for _, cmd := range b.Commands {
		if ctx.Err() != nil {
			logger.Debug("context done, skipping remaining commands")
			results = append(results, skipped(cmd, ErrCancelled))

			continue
		}

		cmd.InheritEnv(b.Env)

		switch cmd.ShouldRun(prevState) {
		case ShouldRunActionSkip:
			results = append(results, skipped(cmd, ErrSkipIntentional))
			continue
		case ShouldRunActionError:
			results = append(results, skipped(cmd, ErrSkipOnError))
			continue
		}

		if f, ok := cmd.(Follower); ok && prev != nil {
			f.Follow(prev)
		}

		childResults := cmd.Run(ctx)
		results = append(results, childResults...)

		if len(childResults) == 0 {
			continue
		}

		prev = childResults[0]
		prevState = PreviousCommandStatus{
			State:    prev.Status,
			ExitCode: prev.ExitCode,
			Err:      prev.Error,
		}
	}

	res := &Result{
		Label:    b.Label,
		Status:   ResultStatusSuccess,
		Children: results,
	}

	if results.HasError() {
		res.ExitCode = -1
		res.Error = ErrResultChildrenHasError
		res.Status = ResultStatusError
	}

	b.ReportResult(b, res)

	return Results{res}
}

// SetProgressReporter sets the reporter on the batch and all of its commands.
func (b *SerialBatch) SetProgressReporter(reporter progress.Reporter) {
	b.BaseCommand.SetProgressReporter(reporter)

	for _, cmd := range b.Commands {
		cmd.SetProgressReporter(reporter)
	}
}

// skipped builds the result for a command that was not run and reports it.
func skipped(cmd Runnable, reason error) *Result {
	res := &Result{
		Label:  cmd.GetLabel(),
		Status: ResultStatusSkipped,
		Error:  reason,
	}

	if b, ok := cmd.(interface{ getBase() *BaseCommand }); ok {
		b.getBase().ReportResult(cmd, res)
	}

	return res
}
