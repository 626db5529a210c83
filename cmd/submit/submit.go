// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package submit provides the submit command, which groups a job list and submits it with bsub.
package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/matt-FFFFFF/gpubatch/cmd/settings"
	"github.com/matt-FFFFFF/gpubatch/internal/bsub"
	"github.com/matt-FFFFFF/gpubatch/internal/config"
	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
	"github.com/matt-FFFFFF/gpubatch/internal/joblist"
	"github.com/matt-FFFFFF/gpubatch/internal/progress"
	"github.com/matt-FFFFFF/gpubatch/internal/prompt"
	"github.com/matt-FFFFFF/gpubatch/internal/runbatch"
	"github.com/matt-FFFFFF/gpubatch/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	dryRunFlag               = "dry-run"
	yesFlag                  = "yes"
	tuiFlag                  = "tui"
	outFlag                  = "out"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"
	cliExitStr               = ""
	progressBufferSize       = 64
)

var (
	// ErrConfirmStdin is returned when confirmation is needed but standard input holds the job list.
	ErrConfirmStdin = errors.New("the job list is read from standard input, pass --yes to submit without confirmation")
	// ErrWriteResults is returned when the results file cannot be written.
	ErrWriteResults = errors.New("failed to write results file")
)

// SubmitCmd is the command that submits a job list.
var SubmitCmd = &cli.Command{
	Name:  "submit",
	Usage: "Group a job list and submit it with bsub",
	Description: `Submit every job in the job list with bsub.

Independent jobs are submitted concurrently. The jobs of a <sequential> block are
submitted in order, each one waiting on the previous job ID. If a submission in a
chain fails the rest of the chain is not submitted.

To save the results for the show command, pass --out.`,
	Arguments: []cli.Argument{settings.JobListArgument()},
	Flags: append(settings.Flags(),
		&cli.BoolFlag{
			Name:    dryRunFlag,
			Aliases: []string{"d"},
			Usage:   "Print the bsub commands instead of running them",
			Sources: cli.EnvVars(config.EnvVar("dry_run")),
		},
		&cli.BoolFlag{
			Name:    yesFlag,
			Aliases: []string{"y"},
			Usage:   "Submit without asking for confirmation",
		},
		&cli.BoolFlag{
			Name:    tuiFlag,
			Aliases: []string{"t", "interactive"},
			Usage:   "Show submission progress in an interactive terminal UI",
			Sources: cli.EnvVars(config.EnvVar("tui")),
		},
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "Save the results to this file",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:    outputStdOutFlag,
			Aliases: []string{"stdout"},
			Usage:   "Include bsub's stdout in the results",
		},
		&cli.BoolFlag{
			Name:    outputSuccessDetailsFlag,
			Aliases: []string{"success"},
			Usage:   "Include output of successful submissions in the results",
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	cfg, path, err := settings.Resolve(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger.Debug("resolved config", "path", path, "config", cfg.String())

	groups, err := settings.ReadJobList(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if len(groups) == 0 {
		logger.Warn("no jobs found in job list")
		return nil
	}

	opts := cfg.Options()
	opts.DryRun = cmd.Bool(dryRunFlag)
	opts.DryRunOut = cmd.Root().Writer

	if !opts.DryRun && !cmd.Bool(yesFlag) {
		if cmd.StringArg(settings.JobListArg) == settings.Stdin {
			return cli.Exit(ErrConfirmStdin.Error(), 1)
		}

		ok, err := prompt.Confirm(Summary(groups, cfg), true)
		if err != nil || !ok {
			logger.Info("submission cancelled")
			return cli.Exit("submission cancelled", 1)
		}
	}

	root, err := bsub.Prepare(groups, opts)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var res runbatch.Results

	switch {
	case cmd.Bool(tuiFlag) && !opts.DryRun:
		res, err = runTUI(ctx, cmd, root, groups)
		if err != nil {
			logger.Error("TUI execution error", "error", err)
		}
	default:
		res = runPlain(ctx, cmd, root)
	}

	if out := cmd.String(outFlag); out != "" {
		if err := writeResults(out, res); err != nil {
			return cli.Exit(err.Error(), 1)
		}

		logger.Info("results written", "file", out)
	}

	outOpts := runbatch.DefaultOutputOptions()
	outOpts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	outOpts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

	if !opts.DryRun {
		if err := res.WriteTextWithOptions(cmd.Root().Writer, outOpts); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	if res.HasError() {
		logger.Error("some jobs were not submitted, see above for details")
		return cli.Exit(cliExitStr, 1)
	}

	ids := res.JobIDs()
	logger.Info("jobs submitted", "count", len(ids), "jobIDs", ids)

	return nil
}

// runPlain runs the submission, logging each event as it happens.
func runPlain(ctx context.Context, cmd *cli.Command, root runbatch.Runnable) runbatch.Results {
	reporter := progress.NewChannelReporter(ctx, progressBufferSize)
	reporter.Listen(&logListener{ctx: ctx})

	root.SetProgressReporter(reporter)
	defer reporter.Close()

	ctxlog.Debug(ctx, "submitting", "label", root.GetLabel(), "command", cmd.Name)

	return root.Run(ctx)
}

// runTUI runs the submission behind the terminal UI, holding log output until it exits.
func runTUI(ctx context.Context, cmd *cli.Command, root runbatch.Runnable, groups joblist.Groups) (runbatch.Results, error) {
	buf := new(bytes.Buffer)
	tuiCtx := ctxlog.NewForTUI(ctx, buf)

	title := fmt.Sprintf("gpu-batch: submitting %d jobs in %d groups", groups.Jobs(), len(groups))
	runner := tui.NewRunner(tuiCtx, title)

	res, err := runner.Run(tuiCtx, root)

	buf.WriteTo(cmd.Root().ErrWriter) //nolint:errcheck

	return res, err
}

func writeResults(name string, res runbatch.Results) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	defer f.Close() //nolint:errcheck

	if err := res.WriteBinary(f); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	return nil
}

// Summary describes what is about to be submitted.
func Summary(groups joblist.Groups, cfg *config.Config) string {
	chains := 0
	for g := range slices.Values(groups) {
		if g.Sequential() {
			chains++
		}
	}

	queue := cfg.Queue
	if queue == "" {
		queue = "the default queue"
	}

	return fmt.Sprintf("Submit %d jobs (%d independent, %d in %d chains) to %s with %d GPUs each?",
		groups.Jobs(), len(groups)-chains, groups.Jobs()-(len(groups)-chains), chains, queue, cfg.GPUs)
}

// logListener logs progress events for single submissions.
type logListener struct {
	ctx context.Context
}

func (l *logListener) OnEvent(e progress.Event) {
	label := runbatch.JoinPath(e.Path)

	switch e.Type {
	case progress.EventCompleted:
		if e.JobID != "" {
			ctxlog.Info(l.ctx, "job submitted", "label", label, "jobID", e.JobID)
		}
	case progress.EventFailed:
		ctxlog.Warn(l.ctx, "submission failed", "label", label, "error", e.Err)
	case progress.EventSkipped:
		ctxlog.Info(l.ctx, "submission skipped", "label", label, "reason", e.Err)
	default:
		ctxlog.Debug(l.ctx, e.Message, "label", label)
	}
}
