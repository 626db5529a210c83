// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"slices"
	"strings"
	"time"
)

// Status is the display state of a node.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuccess
	StatusFailed
	StatusSkipped
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Node is one runnable in the tree: the whole submission, a chain or a single job.
type Node struct {
	Path     []string
	Name     string
	Status   Status
	JobID    string
	ErrorMsg string
	Start    time.Time
	End      time.Time
	Children []*Node
}

// NewNode creates a pending node.
func NewNode(path []string) *Node {
	n := &Node{Path: slices.Clone(path)}
	if len(path) > 0 {
		n.Name = path[len(path)-1]
	}

	return n
}

// SetStatus moves the node to s, recording when it started and finished.
func (n *Node) SetStatus(s Status, at time.Time) {
	n.Status = s

	switch s {
	case StatusRunning:
		if n.Start.IsZero() {
			n.Start = at
		}
	case StatusSuccess, StatusFailed, StatusSkipped:
		if n.End.IsZero() {
			n.End = at
		}
	}
}

// Elapsed returns how long the node ran, or has been running at now.
func (n *Node) Elapsed(now time.Time) time.Duration {
	if n.Start.IsZero() {
		return 0
	}

	if !n.End.IsZero() {
		return n.End.Sub(n.Start)
	}

	return now.Sub(n.Start)
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}
