// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is emitted when a runnable in the submission tree changes state.
type Event struct {
	Path      []string  // Labels from the root runnable down to the emitter
	Type      EventType // What happened
	Message   string    // Human readable detail
	JobID     string    // Scheduler job ID, set on EventCompleted for submissions
	Err       error     // Set on EventFailed and EventSkipped
	Timestamp time.Time // When the event occurred
}

// EventType is the kind of Event.
type EventType int

const (
	// EventStarted is sent when a runnable begins.
	EventStarted EventType = iota
	// EventCompleted is sent when a runnable finishes successfully.
	EventCompleted
	// EventFailed is sent when a runnable finishes with an error.
	EventFailed
	// EventSkipped is sent when a runnable is not run because an earlier step failed.
	EventSkipped
)

// String implements fmt.Stringer.
func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Reporter receives events. Report must not block.
type Reporter interface {
	Report(event Event)
	Close()
}

// Listener consumes events delivered by a ChannelReporter.
type Listener interface {
	OnEvent(event Event)
}

// NullReporter discards all events.
type NullReporter struct{}

// Report implements Reporter.
func (NullReporter) Report(Event) {}

// Close implements Reporter.
func (NullReporter) Close() {}
