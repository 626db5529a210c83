// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bsub

import (
	"context"
	"errors"
	"io"

	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
	"github.com/matt-FFFFFF/gpubatch/internal/joblist"
	"github.com/matt-FFFFFF/gpubatch/internal/progress"
	"github.com/matt-FFFFFF/gpubatch/internal/runbatch"
	"github.com/spf13/afero"
)

var (
	// ErrNoJobs is returned when there is nothing to submit.
	ErrNoJobs = errors.New("no jobs to submit")
	// ErrCreateLogDir is returned when the log directory cannot be created.
	ErrCreateLogDir = errors.New("failed to create log directory")
)

// FsFactory returns the filesystem the log directory is created on.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Plan builds the submission tree for groups.
// The root runs groups concurrently, up to opts.Parallelism at once.
// Each single-job group is a SubmitCommand and each chain is a SerialBatch of them.
func Plan(groups joblist.Groups, opts *Options) (*runbatch.ParallelBatch, error) {
	if len(groups) == 0 {
		return nil, ErrNoJobs
	}

	bsubPath := opts.bsub()

	var dry *dryRunner

	if opts.DryRun {
		w := opts.DryRunOut
		if w == nil {
			w = io.Discard
		}

		dry = &dryRunner{w: w}
	} else {
		p, err := LookPath(bsubPath)
		if err != nil {
			return nil, err
		}

		bsubPath = p
	}

	newSubmit := func(name, command string) *SubmitCommand {
		s := NewSubmitCommand(opts, bsubPath, name, command)
		s.dry = dry

		return s
	}

	cmds := make([]runbatch.Runnable, 0, len(groups))

	for i, g := range groups {
		if !g.Sequential() {
			cmds = append(cmds, newSubmit(JobName(opts.Name, i+1, 0), g[0]))
			continue
		}

		steps := make([]runbatch.Runnable, 0, len(g))
		for j, command := range g {
			steps = append(steps, newSubmit(JobName(opts.Name, i+1, j+1), command))
		}

		cmds = append(cmds, runbatch.NewSerialBatch(
			runbatch.NewBaseCommand(JobName(opts.Name, i+1, 0), "", runbatch.RunOnAlways, nil),
			steps...,
		))
	}

	return runbatch.NewParallelBatch(
		runbatch.NewBaseCommand(opts.name(), "", runbatch.RunOnAlways, opts.Env),
		opts.Parallelism,
		cmds...,
	), nil
}

// Prepare plans the submission of groups and creates the log directory unless this is a dry run.
func Prepare(groups joblist.Groups, opts *Options) (*runbatch.ParallelBatch, error) {
	root, err := Plan(groups, opts)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun && opts.LogDir != "" {
		if err := FsFactory().MkdirAll(opts.LogDir, 0o755); err != nil {
			return nil, errors.Join(ErrCreateLogDir, err)
		}
	}

	return root, nil
}

// Submit prepares and runs the submission of groups. reporter may be nil.
func Submit(ctx context.Context, groups joblist.Groups, opts *Options, reporter progress.Reporter) (runbatch.Results, error) {
	root, err := Prepare(groups, opts)
	if err != nil {
		return nil, err
	}

	if reporter != nil {
		root.SetProgressReporter(reporter)
	}

	ctxlog.Info(ctx, "submitting jobs", "groups", len(groups), "jobs", groups.Jobs(), "dryRun", opts.DryRun)

	return root.Run(ctx), nil
}
