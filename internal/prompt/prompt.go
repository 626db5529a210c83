// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt asks the user questions on the terminal.
package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned when the user presses Ctrl+C or closes the input.
var ErrAborted = errors.New("prompt aborted")

// Prompter reads a line of input after showing a prompt.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// NewPrompter returns the line editor used by Confirm.
var NewPrompter = func() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return line
}

// Confirm asks a yes/no question until it gets an answer.
// An empty answer returns defaultYes.
func Confirm(question string, defaultYes bool) (bool, error) {
	line := NewPrompter()
	defer func() {
		_ = line.Close()
	}()

	suffix := " [y/N] "
	if defaultYes {
		suffix = " [Y/n] "
	}

	for {
		input, err := line.Prompt(question + suffix)
		switch {
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			return false, ErrAborted
		case err != nil:
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}
