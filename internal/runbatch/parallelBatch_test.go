// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestParallelBatch_KeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	slow := newFakeCmd("slow", ResultStatusSuccess)
	slow.delay = 50 * time.Millisecond
	fast := newFakeCmd("fast", ResultStatusSuccess)

	results := NewParallelBatch(NewBaseCommand("all", "", RunOnAlways, nil), 0, slow, fast).Run(context.Background())
	require.Len(t, results, 1)
	require.Len(t, results[0].Children, 2)
	assert.Equal(t, "slow", results[0].Children[0].Label)
	assert.Equal(t, "fast", results[0].Children[1].Label)
	assert.Equal(t, ResultStatusSuccess, results[0].Status)
}

func TestParallelBatch_Limit(t *testing.T) {
	defer goleak.VerifyNone(t)

	tcs := []struct {
		name  string
		limit int
		want  int32
	}{
		{name: "one at a time", limit: 1, want: 1},
		{name: "two at a time", limit: 2, want: 2},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			running := &atomic.Int32{}
			peak := &atomic.Int32{}

			cmds := make([]Runnable, 0, 4)

			for range 4 {
				c := newFakeCmd("c", ResultStatusSuccess)
				c.delay = 20 * time.Millisecond
				c.running = running
				c.peak = peak
				cmds = append(cmds, c)
			}

			NewParallelBatch(NewBaseCommand("all", "", RunOnAlways, nil), tc.limit, cmds...).Run(context.Background())
			assert.Equal(t, tc.want, peak.Load())
		})
	}
}

func TestParallelBatch_ChildFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	ok := newFakeCmd("ok", ResultStatusSuccess)
	bad := newFakeCmd("bad", ResultStatusError)

	results := NewParallelBatch(NewBaseCommand("all", "", RunOnAlways, nil), 0, ok, bad).Run(context.Background())
	assert.Equal(t, ResultStatusError, results[0].Status)
	require.ErrorIs(t, results[0].Error, ErrResultChildrenHasError)
	assert.True(t, ok.ran.Load(), "a failing sibling does not stop independent commands")
}

func TestParallelBatch_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newFakeCmd("a", ResultStatusSuccess)

	results := NewParallelBatch(NewBaseCommand("all", "", RunOnAlways, nil), 0, a).Run(ctx)
	assert.False(t, a.ran.Load())
	require.ErrorIs(t, results[0].Children[0].Error, ErrCancelled)
}

func TestParallelBatch_Empty(t *testing.T) {
	results := NewParallelBatch(NewBaseCommand("all", "", RunOnAlways, nil), 0).Run(context.Background())
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Children)
	assert.Equal(t, ResultStatusSuccess, results[0].Status)
}
