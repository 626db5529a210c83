// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/spf13/afero"
)

const (
	maxLineSize = 1024 * 1024 // 1MB
)

var (
	// ErrReadJobList is returned when the job list cannot be read.
	ErrReadJobList = errors.New("failed to read job list")
)

// FsFactory returns the filesystem used to read local job lists.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ReadLines splits r into lines. Line terminators are removed.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	lines := make([]string, 0)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Join(ErrReadJobList, err)
	}

	return lines, nil
}

// Parse reads a job list from r and groups it.
func Parse(r io.Reader) (Groups, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}

	return GroupLines(lines)
}

// ParseBytes groups the job list held in b.
func ParseBytes(b []byte) (Groups, error) {
	return Parse(bytes.NewReader(b))
}

// ParseFile reads and groups the job list at path on the filesystem returned by FsFactory.
func ParseFile(path string) (Groups, error) {
	f, err := FsFactory().Open(path)
	if err != nil {
		return nil, errors.Join(ErrReadJobList, err)
	}

	defer f.Close() //nolint:errcheck

	return Parse(f)
}

// Render writes groups back out as a job list.
// Groups with more than one command are wrapped in sequential markers,
// or every group is when forceSequential is set. A group ending in a
// continuation marker is always wrapped so it cannot run into the next line.
func Render(groups Groups, forceSequential bool) string {
	sb := strings.Builder{}

	for _, g := range groups {
		wrap := forceSequential || g.Sequential() || g.endsInContinuation()
		if wrap {
			sb.WriteString(SequentialStart)
			sb.WriteString("\n")
		}

		for _, cmd := range g {
			sb.WriteString(cmd)
			sb.WriteString("\n")
		}

		if wrap {
			sb.WriteString(SequentialEnd)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (g Group) endsInContinuation() bool {
	return len(g) > 0 && strings.HasSuffix(g[len(g)-1], ContinuationMarker)
}
