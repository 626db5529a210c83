// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/gpubatch/internal/progress"
	"github.com/matt-FFFFFF/gpubatch/internal/runbatch"
)

var _ progress.Reporter = (*Runner)(nil)

// Runner runs a runnable while showing its progress.
type Runner struct {
	model   *Model
	program *tea.Program
	closed  bool
	mu      sync.RWMutex
}

// NewRunner creates a runner whose display is headed with title.
func NewRunner(ctx context.Context, title string, opts ...tea.ProgramOption) *Runner {
	model := NewModel(title)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	return &Runner{
		model:   model,
		program: tea.NewProgram(model, opts...),
	}
}

// Report implements progress.Reporter.
func (r *Runner) Report(e progress.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	r.program.Send(EventMsg{Event: e})
}

// Close implements progress.Reporter.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
}

// Run executes runnable with the display attached.
// Quitting the display cancels the context given to runnable, so no further jobs are submitted,
// and Run waits for the runnable to return.
func (r *Runner) Run(ctx context.Context, runnable runbatch.Runnable) (runbatch.Results, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runnable.SetProgressReporter(r)

	resultCh := make(chan runbatch.Results, 1)

	go func() {
		res := runnable.Run(ctx)
		resultCh <- res

		r.program.Send(DoneMsg{Results: res})
	}()

	_, err := r.program.Run()

	r.Close()
	cancel()

	return <-resultCh, err
}
