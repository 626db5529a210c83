// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bsub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/matt-FFFFFF/gpubatch/internal/progress"
	"github.com/matt-FFFFFF/gpubatch/internal/runbatch"
)

var (
	_ runbatch.Runnable = (*SubmitCommand)(nil)
	_ runbatch.Follower = (*SubmitCommand)(nil)
)

// ErrNoJobID is returned when bsub succeeds but its output does not contain a job ID.
var ErrNoJobID = errors.New("no job ID in bsub output")

var jobIDPattern = regexp.MustCompile(`Job <(\d+)> is submitted`)

// ParseJobID extracts the job ID from bsub output such as
// "Job <123> is submitted to queue <gpu>.".
func ParseJobID(out []byte) (string, error) {
	m := jobIDPattern.FindSubmatch(out)
	if m == nil {
		return "", ErrNoJobID
	}

	return string(m[1]), nil
}

// SubmitCommand submits one job with bsub.
// In a chain it follows the previous step and waits on its job ID.
type SubmitCommand struct {
	*runbatch.OSCommand
	Command    string // The job's command, sent as a script on stdin
	dependency string
	opts       *Options
	dry        *dryRunner
}

// NewSubmitCommand creates a SubmitCommand for the job named jobName running command.
// bsubPath must be the resolved path of the bsub executable.
func NewSubmitCommand(opts *Options, bsubPath, jobName, command string) *SubmitCommand {
	s := &SubmitCommand{
		OSCommand: &runbatch.OSCommand{
			BaseCommand: runbatch.NewBaseCommand(jobName, "", runbatch.RunOnSuccess, nil),
			Path:        bsubPath,
			Stdin:       Script(command),
		},
		Command: command,
		opts:    opts,
	}

	s.ResultHook = setJobID

	return s
}

// Follow implements runbatch.Follower.
func (s *SubmitCommand) Follow(prev *runbatch.Result) {
	if prev == nil {
		return
	}

	s.dependency = prev.JobID
}

// Dependency returns the job ID this submission waits on, if any.
func (s *SubmitCommand) Dependency() string {
	return s.dependency
}

// Run implements runbatch.Runnable.
func (s *SubmitCommand) Run(ctx context.Context) runbatch.Results {
	s.Args = Args(s.opts, s.Label, s.dependency)

	if s.dry != nil {
		return s.dry.submit(s)
	}

	return s.OSCommand.Run(ctx)
}

// setJobID records the job ID from bsub's output, or fails the result when there is none.
func setJobID(res *runbatch.Result) {
	if res.Status != runbatch.ResultStatusSuccess {
		return
	}

	id, err := ParseJobID(res.StdOut)
	if err != nil {
		res.Status = runbatch.ResultStatusError
		res.Error = err
		res.ExitCode = -1

		return
	}

	res.JobID = id
}

// dryRunner prints submissions and hands out synthetic job IDs.
type dryRunner struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

func (d *dryRunner) submit(s *SubmitCommand) runbatch.Results {
	s.Report(s, progress.EventStarted, "dry run", nil)

	d.mu.Lock()
	d.n++
	id := fmt.Sprintf("dry-%d", d.n)
	_, err := fmt.Fprintf(d.w, "%s <<'GPU_BATCH_EOF'\n%sGPU_BATCH_EOF\n",
		CommandLine(s.opts.bsub(), s.Args), s.Stdin)
	d.mu.Unlock()

	res := &runbatch.Result{
		Label:  s.Label,
		Status: runbatch.ResultStatusSuccess,
		JobID:  id,
	}

	if err != nil {
		res.Status = runbatch.ResultStatusError
		res.Error = err
		res.ExitCode = -1
		res.JobID = ""
	}

	s.ReportResult(s, res)

	return runbatch.Results{res}
}
