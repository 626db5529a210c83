// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package settings

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/matt-FFFFFF/gpubatch/internal/joblist"
	"github.com/urfave/cli/v3"
)

const (
	// JobListArg names the positional job list argument.
	JobListArg = "joblist"
	// Stdin as the job list source reads from standard input.
	Stdin = "-"
)

// ErrNoJobList is returned when no job list was given.
var ErrNoJobList = errors.New("no job list given, pass a file, URL or - for standard input")

// JobListArgument returns the positional job list argument.
func JobListArgument() cli.Argument {
	return &cli.StringArg{
		Name:      JobListArg,
		UsageText: "<job list file, URL or ->",
	}
}

// ReadJobList reads and groups the job list named by the positional argument.
func ReadJobList(ctx context.Context, cmd *cli.Command) (joblist.Groups, error) {
	src := cmd.StringArg(JobListArg)

	switch src {
	case "":
		return nil, ErrNoJobList
	case Stdin:
		var r io.Reader = os.Stdin
		if root := cmd.Root(); root != nil && root.Reader != nil {
			r = root.Reader
		}

		return joblist.Parse(r)
	default:
		return joblist.Fetch(ctx, src)
	}
}
