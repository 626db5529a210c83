// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	prefix = "\033["
	suffix = "m"
	reset  = "\033[0m"
)

// Code is an SGR parameter.
type Code int

// Text attributes.
const (
	Reset Code = 0
	Bold  Code = 1
	Faint Code = 2
)

// Foreground colours.
const (
	FgRed     Code = 31
	FgGreen   Code = 32
	FgYellow  Code = 33
	FgBlue    Code = 34
	FgMagenta Code = 35
	FgCyan    Code = 36
	FgWhite   Code = 37

	FgHiBlack   Code = 90
	FgHiRed     Code = 91
	FgHiMagenta Code = 95
	FgHiWhite   Code = 97
)

var enabled = detect(os.Getenv, func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
})

// Enabled reports whether colour output was detected at start-up.
func Enabled() bool {
	return enabled
}

// Colorize wraps str in the given codes followed by a reset, if colour is enabled.
func Colorize(str string, codes ...Code) string {
	return Paint(enabled, str, codes...)
}

// Paint wraps str in the given codes followed by a reset when on is true.
func Paint(on bool, str string, codes ...Code) string {
	if !on || len(codes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + 3*len(codes))
	sb.WriteString(sequence(codes))
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

func sequence(codes []Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(int(c))
	}

	return prefix + strings.Join(parts, ";") + suffix
}

func detect(getenv func(string) string, isTerminal func() bool) bool {
	if getenv(NoColor) != "" {
		return false
	}

	if getenv(ForceColor) != "" {
		return true
	}

	return isTerminal()
}
