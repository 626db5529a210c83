// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"sync"

	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
	"github.com/matt-FFFFFF/gpubatch/internal/progress"
	"golang.org/x/sync/semaphore"
)

var _ Runnable = (*ParallelBatch)(nil)

// ParallelBatch runs its commands concurrently.
// Results keep the order of Commands regardless of completion order.
type ParallelBatch struct {
	*BaseCommand
	Commands []Runnable
	Limit    int // Maximum concurrent commands, 0 means unlimited
}

// NewParallelBatch creates a ParallelBatch and sets itself as the parent of cmds.
func NewParallelBatch(base *BaseCommand, limit int, cmds ...Runnable) *ParallelBatch {
	b := &ParallelBatch{BaseCommand: base, Commands: cmds, Limit: limit}
	for _, c := range cmds {
		c.SetParent(b)
	}

	return b
}

// Run implements Runnable.
func (b *ParallelBatch) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "ParallelBatch").
		With("label", FullLabel(b))

	b.Report(b, progress.EventStarted, "starting parallel batch", nil)

	limit := int64(b.Limit)
	if limit <= 0 {
		limit = int64(max(len(b.Commands), 1))
	}

	sem := semaphore.NewWeighted(limit)
	out := make([]Results, len(b.Commands))
	wg := &sync.WaitGroup{}

	for i, cmd := range b.Commands {
		cmd.InheritEnv(b.Env)

		if err := sem.Acquire(ctx, 1); err != nil {
			logger.Debug("context done, not starting command", "commandLabel", cmd.GetLabel())
			out[i] = Results{skipped(cmd, ErrCancelled)}

			continue
		}

		wg.Add(1)

		go func(i int, c Runnable) {
			defer wg.Done()
			defer sem.Release(1)

			out[i] = c.Run(ctx)
		}(i, cmd)
	}

	wg.Wait()

	children := make(Results, 0, len(b.Commands))
	for _, r := range out {
		children = append(children, r...)
	}

	res := &Result{
		Label:    b.Label,
		Status:   ResultStatusSuccess,
		Children: children,
	}

	if children.HasError() {
		res.ExitCode = -1
		res.Error = ErrResultChildrenHasError
		res.Status = ResultStatusError
	}

	b.ReportResult(b, res)

	return Results{res}
}

// SetProgressReporter sets the reporter on the batch and all of its commands.
func (b *ParallelBatch) SetProgressReporter(reporter progress.Reporter) {
	b.BaseCommand.SetProgressReporter(reporter)

	for _, cmd := range b.Commands {
		cmd.SetProgressReporter(reporter)
	}
}
