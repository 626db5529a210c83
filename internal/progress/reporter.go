// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
)

var _ Reporter = (*ChannelReporter)(nil)

// ChannelReporter buffers events in a channel.
// Events are dropped rather than blocking the sender when the buffer is full.
type ChannelReporter struct {
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	wg     sync.WaitGroup
	once   sync.Once
}

// NewChannelReporter creates a ChannelReporter with the given buffer size.
func NewChannelReporter(ctx context.Context, size int) *ChannelReporter {
	ctx, cancel := context.WithCancel(ctx)

	return &ChannelReporter{
		ch:     make(chan Event, size),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Report implements Reporter.
func (r *ChannelReporter) Report(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.ctx.Err() != nil {
		return
	}

	select {
	case r.ch <- event:
	default:
	}
}

// Close stops the reporter and waits for any listener to drain the channel.
func (r *ChannelReporter) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.cancel()
		close(r.ch)
		r.mu.Unlock()
		r.wg.Wait()
	})
}

// Listen forwards events to l on a new goroutine until the reporter is closed.
// Events already buffered when Close is called are still delivered.
func (r *ChannelReporter) Listen(l Listener) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		for event := range r.ch {
			l.OnEvent(event)
		}
	}()
}

// Events returns the underlying channel. It is closed by Close.
func (r *ChannelReporter) Events() <-chan Event {
	return r.ch
}
