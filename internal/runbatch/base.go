// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"maps"
	"time"

	"github.com/matt-FFFFFF/gpubatch/internal/progress"
)

// BaseCommand implements the bookkeeping parts of Runnable.
// It is embedded in the concrete command and batch types.
type BaseCommand struct {
	Label           string            // Label shown in output and progress events
	Cwd             string            // Working directory
	RunsOnCondition RunCondition      // When to run relative to the previous command
	Env             map[string]string // Environment variables added to the process environment
	parent          Runnable
	reporter        progress.Reporter
}

// PreviousCommandStatus holds the outcome of the previous command in a serial batch.
type PreviousCommandStatus struct {
	State    ResultStatus
	ExitCode int
	Err      error
}

// NewBaseCommand creates a BaseCommand.
func NewBaseCommand(label, cwd string, runsOn RunCondition, env map[string]string) *BaseCommand {
	if env == nil {
		env = make(map[string]string)
	}

	return &BaseCommand{
		Label:           label,
		Cwd:             cwd,
		RunsOnCondition: runsOn,
		Env:             env,
	}
}

// GetLabel returns the label of the command.
func (c *BaseCommand) GetLabel() string {
	if c.Label == "" {
		return "Command"
	}

	return c.Label
}

// GetParent returns the parent for this command or batch.
func (c *BaseCommand) GetParent() Runnable {
	return c.parent
}

// SetParent sets the parent for this command or batch.
func (c *BaseCommand) SetParent(parent Runnable) {
	c.parent = parent
}

// InheritEnv adds the variables in env that are not already set.
func (c *BaseCommand) InheritEnv(env map[string]string) {
	if len(c.Env) == 0 {
		c.Env = maps.Clone(env)
		return
	}

	for k, v := range env {
		if _, ok := c.Env[k]; !ok {
			c.Env[k] = v
		}
	}
}

// SetProgressReporter sets the reporter for lifecycle events.
func (c *BaseCommand) SetProgressReporter(reporter progress.Reporter) {
	c.reporter = reporter
}

// ShouldRun decides whether to run based on the previous command and RunsOnCondition.
func (c *BaseCommand) ShouldRun(prev PreviousCommandStatus) ShouldRunAction {
	switch c.RunsOnCondition {
	case RunOnAlways:
		return ShouldRunActionRun
	default:
		if prev.State != ResultStatusSuccess {
			return ShouldRunActionError
		}

		if errors.Is(prev.Err, ErrSkipIntentional) {
			return ShouldRunActionSkip
		}

		return ShouldRunActionRun
	}
}

// Report sends an event for self if a reporter is set.
func (c *BaseCommand) Report(self Runnable, t progress.EventType, msg string, res *Result) {
	if c.reporter == nil {
		return
	}

	ev := progress.Event{
		Path:      Path(self),
		Type:      t,
		Message:   msg,
		Timestamp: time.Now(),
	}

	if res != nil {
		ev.JobID = res.JobID
		ev.Err = res.Error
	}

	c.reporter.Report(ev)
}

// ReportResult sends the completion event matching the status of res.
func (c *BaseCommand) ReportResult(self Runnable, res *Result) {
	switch res.Status {
	case ResultStatusSuccess:
		c.Report(self, progress.EventCompleted, "completed", res)
	case ResultStatusSkipped:
		c.Report(self, progress.EventSkipped, "skipped", res)
	default:
		c.Report(self, progress.EventFailed, "failed", res)
	}
}

func (c *BaseCommand) getBase() *BaseCommand {
	return c
}
