// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/gpubatch/cmd/config"
	"github.com/matt-FFFFFF/gpubatch/cmd/parse"
	"github.com/matt-FFFFFF/gpubatch/cmd/show"
	"github.com/matt-FFFFFF/gpubatch/cmd/submit"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		submit.SubmitCmd,
		parse.ParseCmd,
		config.ConfigCmd,
		show.ShowCmd,
	},
	DefaultCommand: submit.SubmitCmd.Name,
	Writer:         os.Stdout,
	ErrWriter:      os.Stderr,
	Name:           "gpu-batch",
	Description: `gpu-batch submits the jobs in a job list to an LSF cluster with bsub.

Each line of the job list is one job. Lines ending in \ continue on the next line,
and # starts a comment. Jobs between <sequential> and </sequential> form a chain:
each one is submitted to wait on the job before it with -w "done(ID)".

Job lists can be local files, - for standard input, or any source supported by
Hashicorp's go-getter, see https://github.com/hashicorp/go-getter.`,
	Usage:     "gpu-batch submit -g 2 -q gpu jobs.txt",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
