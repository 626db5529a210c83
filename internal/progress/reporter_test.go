// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type recordingListener struct {
	mu     sync.Mutex
	events []Event
}

func (l *recordingListener) OnEvent(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, e)
}

func TestChannelReporter_Listen(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewChannelReporter(context.Background(), 10)
	l := &recordingListener{}
	r.Listen(l)

	r.Report(Event{Path: []string{"jobs", "group-1"}, Type: EventStarted})
	r.Report(Event{Path: []string{"jobs", "group-1"}, Type: EventCompleted, JobID: "42"})
	r.Close()

	assert.Len(t, l.events, 2)
	assert.Equal(t, EventCompleted, l.events[1].Type)
	assert.Equal(t, "42", l.events[1].JobID)
}

func TestChannelReporter_DropsWhenFullOrClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewChannelReporter(context.Background(), 1)
	r.Report(Event{Type: EventStarted})
	r.Report(Event{Type: EventCompleted}) // dropped, buffer full
	r.Close()
	r.Close()
	r.Report(Event{Type: EventFailed}) // dropped, closed

	n := 0
	for range r.Events() {
		n++
	}

	assert.Equal(t, 1, n)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "started", EventStarted.String())
	assert.Equal(t, "completed", EventCompleted.String())
	assert.Equal(t, "failed", EventFailed.String())
	assert.Equal(t, "skipped", EventSkipped.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
