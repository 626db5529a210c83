// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show provides the show command, which prints results saved by submit --out.
package show

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/gpubatch/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	fileArg    = "file"
	stdoutFlag = "output-stdout"
	idsFlag    = "ids"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrWriteResults is returned when the results cannot be written to stdout.
	ErrWriteResults = errors.New("failed to write results to stdout")
)

// ShowCmd is the command that shows previously saved results.
var ShowCmd = &cli.Command{
	Name:        "show",
	Usage:       "Show results saved with submit --out",
	Description: "Show previously saved results.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: fileArg,
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    stdoutFlag,
			Aliases: []string{"stdout"},
			Usage:   "Include bsub's stdout in the results",
		},
		&cli.BoolFlag{
			Name:  idsFlag,
			Usage: "Print only the submitted job IDs, one per line",
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		file, err := os.Open(cmd.StringArg(fileArg))
		if err != nil {
			return errors.Join(ErrReadFile, err)
		}
		defer file.Close() // nolint:errcheck

		results, err := runbatch.ReadBinary(file)
		if err != nil {
			return err
		}

		w := cmd.Root().Writer

		if cmd.Bool(idsFlag) {
			for _, id := range results.JobIDs() {
				if _, err := w.Write([]byte(id + "\n")); err != nil {
					return errors.Join(ErrWriteResults, err)
				}
			}

			return nil
		}

		opts := runbatch.DefaultOutputOptions()
		opts.IncludeStdOut = cmd.Bool(stdoutFlag)

		if err := results.WriteTextWithOptions(w, opts); err != nil {
			return errors.Join(ErrWriteResults, err)
		}

		return nil
	},
}
