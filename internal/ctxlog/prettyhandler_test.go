// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct{}

func (failWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("write failed")
}

func newRecord(level slog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC), level, msg, 0)
	r.AddAttrs(attrs...)

	return r
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, WithDestinationWriter(&buf))

	err := h.Handle(context.Background(), newRecord(slog.LevelInfo, "job submitted", slog.String("id", "42")))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[03:04:05.006] INFO: job submitted "), out)
	assert.Contains(t, out, `"id":`)
	assert.Contains(t, out, `"42"`)
	assert.NotContains(t, out, `"msg"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(nil, WithDestinationWriter(&buf))
	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelWarn, "bare")))
	assert.Equal(t, "[03:04:05.006] WARN: bare\n", buf.String())

	buf.Reset()

	h = NewPrettyHandler(nil, WithDestinationWriter(&buf), WithOutputEmptyAttrs())
	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelWarn, "bare")))
	assert.Contains(t, buf.String(), "{}")
}

func TestPrettyHandler_ReplaceAttr(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelError, "no time")))
	assert.Equal(t, "ERROR: no time\n", buf.String())
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(&buf))).
		With("queue", "gpu").
		WithGroup("job")

	logger.Warn("queued", "name", "sweep-1")

	assert.Contains(t, buf.String(), `"queue":`)
	assert.Contains(t, buf.String(), `"job":`)
	assert.Contains(t, buf.String(), `"sweep-1"`)
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelInfo})
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestPrettyHandler_Colour(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(nil, WithDestinationWriter(&buf), WithColour())
	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelError, "red")))
	assert.Contains(t, buf.String(), "\033[31mERROR:\033[0m")
}

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failWriter{}))
	err := h.Handle(context.Background(), newRecord(slog.LevelWarn, "lost"))
	require.ErrorIs(t, err, ErrIoWrite)
}
