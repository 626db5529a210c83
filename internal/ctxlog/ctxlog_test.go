// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		ctx           func() context.Context
		expectDefault bool
	}{
		{
			name: "context with logger",
			ctx: func() context.Context {
				return New(context.Background(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			},
		},
		{
			name:          "context without logger",
			ctx:           context.Background,
			expectDefault: true,
		},
		{
			name: "nil logger uses default",
			ctx: func() context.Context {
				return New(context.Background(), nil)
			},
			expectDefault: true,
		},
		{
			name: "wrong type value",
			ctx: func() context.Context {
				return context.WithValue(context.Background(), loggerKey{}, "not a logger")
			},
			expectDefault: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Logger(tt.ctx())
			require.NotNil(t, logger)

			if tt.expectDefault {
				assert.Same(t, DefaultLogger, logger)
				return
			}

			assert.NotSame(t, DefaultLogger, logger)
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer

	ctx := New(context.Background(), slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	tests := []struct {
		name    string
		logFunc func(context.Context, string, ...any)
		want    string
	}{
		{name: "debug", logFunc: Debug, want: "level=DEBUG"},
		{name: "info", logFunc: Info, want: "level=INFO"},
		{name: "warn", logFunc: Warn, want: "level=WARN"},
		{name: "error", logFunc: Error, want: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc(ctx, "submitting", "group", 3)

			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "msg=submitting")
			assert.Contains(t, buf.String(), "group=3")
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{value: "DEBUG", want: slog.LevelDebug},
		{value: "info", want: slog.LevelInfo},
		{value: "WARN", want: slog.LevelWarn},
		{value: "ERROR", want: slog.LevelError},
		{value: "nonsense", want: slog.LevelWarn},
		{value: "", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(LogLevelEnvVar, tt.value)
			assert.Equal(t, tt.want, logLevelFromEnv())
		})
	}
}

func TestNewForTUI(t *testing.T) {
	original := LevelVar.Level()
	defer LevelVar.Set(original)

	LevelVar.Set(slog.LevelInfo)

	var buf bytes.Buffer

	ctx := NewForTUI(context.Background(), &buf)
	Info(ctx, "captured", "key", "value")
	Debug(ctx, "dropped")

	assert.Contains(t, buf.String(), "INFO: captured")
	assert.Contains(t, buf.String(), `"key":`)
	assert.NotContains(t, buf.String(), "dropped")
	assert.NotContains(t, buf.String(), "\033[")
}
