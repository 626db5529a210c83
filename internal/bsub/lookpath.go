// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bsub

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBsubNotFound is returned when the bsub executable cannot be found.
var ErrBsubNotFound = errors.New("bsub executable not found")

// LookPath finds the executable called name.
// Names containing a path separator are checked directly, other names are searched for on PATH.
func LookPath(name string) (string, error) {
	if name == "" {
		return "", ErrBsubNotFound
	}

	if strings.ContainsRune(name, os.PathSeparator) {
		if isExecutable(name) {
			return filepath.Abs(name)
		}

		return "", fmt.Errorf("%w: %s", ErrBsubNotFound, name)
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}

		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return filepath.Abs(candidate)
		}
	}

	return "", fmt.Errorf("%w: %s not in PATH", ErrBsubNotFound, name)
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}

	return info.Mode()&0o111 != 0
}
