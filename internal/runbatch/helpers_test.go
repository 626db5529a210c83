// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/gpubatch/internal/progress"
)

// fakeCmd is a Runnable that returns a canned result.
type fakeCmd struct {
	*BaseCommand
	delay    time.Duration
	status   ResultStatus
	jobID    string
	err      error
	ran      atomic.Bool
	followed *Result
	running  *atomic.Int32
	peak     *atomic.Int32
}

func newFakeCmd(label string, status ResultStatus) *fakeCmd {
	return &fakeCmd{
		BaseCommand: NewBaseCommand(label, "", RunOnSuccess, nil),
		status:      status,
	}
}

func (f *fakeCmd) Run(ctx context.Context) Results {
	f.ran.Store(true)

	if f.running != nil {
		n := f.running.Add(1)
		for {
			p := f.peak.Load()
			if n <= p || f.peak.CompareAndSwap(p, n) {
				break
			}
		}

		defer f.running.Add(-1)
	}

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
	}

	res := &Result{Label: f.Label, Status: f.status, JobID: f.jobID, Error: f.err}
	if f.status == ResultStatusError {
		res.ExitCode = 1
	}

	return Results{res}
}

func (f *fakeCmd) Follow(prev *Result) {
	f.followed = prev
}

// recordingReporter keeps every event it receives.
type recordingReporter struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recordingReporter) Report(e progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

func (r *recordingReporter) Close() {}

func (r *recordingReporter) types() []progress.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]progress.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}

	return out
}

func (r *recordingReporter) snapshot() []progress.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}
