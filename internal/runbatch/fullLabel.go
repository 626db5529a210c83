// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"slices"
	"strings"
)

// FullLabel returns the labels from the root batch down to r, joined by " > ".
func FullLabel(r Runnable) string {
	if r == nil {
		return "Unknown"
	}

	return JoinPath(Path(r))
}

// JoinPath formats a path of labels the way FullLabel does.
func JoinPath(path []string) string {
	return strings.Join(path, " > ")
}

// Path returns the labels from the root batch down to r.
func Path(r Runnable) []string {
	if r == nil {
		return nil
	}

	labels := []string{r.GetLabel()}
	for p := r.GetParent(); p != nil; p = p.GetParent() {
		labels = append(labels, p.GetLabel())
	}

	slices.Reverse(labels)

	return labels
}
