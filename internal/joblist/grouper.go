// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SequentialStart opens a block of jobs that run as one dependency chain.
	SequentialStart = "<sequential>"
	// SequentialEnd closes a block opened with SequentialStart.
	SequentialEnd = "</sequential>"
	// CommentMarker starts a comment that runs to the end of the line.
	CommentMarker = "#"
	// ContinuationMarker at the end of a line joins it with the next one.
	ContinuationMarker = `\`
)

var (
	// ErrNestedSequential is returned when a sequential block is opened inside another.
	ErrNestedSequential = errors.New("sequential block opened while another is open")
	// ErrUnmatchedSequentialEnd is returned when a sequential block is closed but none is open.
	ErrUnmatchedSequentialEnd = errors.New("sequential block closed but none is open")
)

// LineError reports a grouping error together with the 1-based line it occurred on.
type LineError struct {
	Line int
	Err  error
}

// Error implements the error interface for LineError.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err.Error())
}

// Unwrap returns the underlying sentinel error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// Group is an ordered set of commands submitted as one unit.
// A group with a single command is an independent job, otherwise it is a chain.
type Group []string

// Sequential reports whether the group must be submitted as a dependency chain.
func (g Group) Sequential() bool {
	return len(g) > 1
}

// Groups is the result of grouping a job list.
type Groups []Group

// Jobs returns the total number of commands across all groups.
func (gs Groups) Jobs() int {
	n := 0
	for _, g := range gs {
		n += len(g)
	}

	return n
}

// blockState tracks whether the grouper is inside a sequential block.
type blockState int

const (
	stateIdle blockState = iota
	stateSequential
)

// grouper is the state machine behind GroupLines.
// A pending continuation composes with either block state.
type grouper struct {
	out     Groups
	block   Group
	state   blockState
	pending *strings.Builder
}

// GroupLines converts the lines of a job list into groups of commands.
// Comments and blank lines are dropped, continuation lines are joined and
// jobs between <sequential> and </sequential> are collected into one group.
func GroupLines(lines []string) (Groups, error) {
	g := &grouper{
		out: make(Groups, 0, len(lines)),
	}

	for i, raw := range lines {
		if err := g.feed(raw); err != nil {
			return nil, &LineError{Line: i + 1, Err: err}
		}
	}

	g.finish()

	return g.out, nil
}

func (g *grouper) feed(raw string) error {
	line := stripLine(raw)

	switch strings.TrimSpace(line) {
	case "":
		return nil
	case SequentialStart:
		if g.state == stateSequential {
			return ErrNestedSequential
		}

		g.flushPending()
		g.state = stateSequential
		g.block = make(Group, 0)

		return nil
	case SequentialEnd:
		if g.state != stateSequential {
			return ErrUnmatchedSequentialEnd
		}

		g.flushPending()
		g.closeBlock()

		return nil
	}

	continues := strings.HasSuffix(line, ContinuationMarker)

	if g.pending != nil {
		g.pending.WriteString("\n")
		g.pending.WriteString(line)

		if !continues {
			g.flushPending()
		}

		return nil
	}

	if continues {
		g.pending = &strings.Builder{}
		g.pending.WriteString(line)

		return nil
	}

	g.emit(line)

	return nil
}

func (g *grouper) finish() {
	g.flushPending()

	if g.state == stateSequential {
		g.closeBlock()
	}
}

func (g *grouper) emit(cmd string) {
	if g.state == stateSequential {
		g.block = append(g.block, cmd)
		return
	}

	g.out = append(g.out, Group{cmd})
}

func (g *grouper) flushPending() {
	if g.pending == nil {
		return
	}

	cmd := g.pending.String()
	g.pending = nil
	g.emit(cmd)
}

func (g *grouper) closeBlock() {
	if len(g.block) > 0 {
		g.out = append(g.out, g.block)
	}

	g.block = nil
	g.state = stateIdle
}

// stripLine removes anything from the first comment marker onwards and any trailing whitespace,
// including the line terminator.
func stripLine(raw string) string {
	line := raw

	if i := strings.Index(line, CommentMarker); i >= 0 {
		line = line[:i]
	}

	return strings.TrimRight(line, " \t\r\n")
}
