// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaint(t *testing.T) {
	assert.Equal(t, "plain", Paint(false, "plain", FgRed))
	assert.Equal(t, "plain", Paint(true, "plain"))
	assert.Equal(t, "\033[31mred\033[0m", Paint(true, "red", FgRed))
	assert.Equal(t, "\033[1;32mok\033[0m", Paint(true, "ok", Bold, FgGreen))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		terminal bool
		want     bool
	}{
		{name: "terminal", terminal: true, want: true},
		{name: "not a terminal", terminal: false, want: false},
		{name: "NO_COLOR wins", env: map[string]string{NoColor: "1", ForceColor: "1"}, terminal: true, want: false},
		{name: "FORCE_COLOR without terminal", env: map[string]string{ForceColor: "1"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect(func(k string) string { return tt.env[k] }, func() bool { return tt.terminal })
			assert.Equal(t, tt.want, got)
		})
	}
}
