// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package bsub

import (
	"io"
	"path"
	"strconv"
	"strings"
)

const (
	// DefaultBsub is the executable used when Options.Bsub is empty.
	DefaultBsub = "bsub"
	// DefaultName is the job name prefix used when Options.Name is empty.
	DefaultName = "gpu-batch"
	// GPUModeExclusive gives each job exclusive use of its GPUs.
	GPUModeExclusive = "exclusive_process"
	// GPUModeShared lets jobs share GPUs.
	GPUModeShared = "shared"

	scriptHeader = "#!/bin/bash\n"
)

// Options controls how jobs are submitted.
type Options struct {
	Bsub        string            // bsub executable, looked up on PATH unless it contains a slash
	Queue       string            // -q
	GPUs        int               // -gpu num=, omitted when zero
	GPUMode     string            // -gpu mode=
	CPUs        int               // -n, omitted when one or less
	Memory      string            // -M
	Walltime    string            // -W
	Name        string            // Job name prefix
	LogDir      string            // Directory for -o and -e files
	Env         map[string]string // Added to the bsub environment, which LSF copies to the job
	ExtraArgs   []string          // Appended verbatim
	Parallelism int               // Concurrent bsub invocations, 0 means unlimited
	DryRun      bool              // Print the submissions instead of running bsub
	DryRunOut   io.Writer         // Destination for dry run output
}

func (o *Options) name() string {
	if o.Name == "" {
		return DefaultName
	}

	return o.Name
}

func (o *Options) bsub() string {
	if o.Bsub == "" {
		return DefaultBsub
	}

	return o.Bsub
}

// JobName returns the name of the job for the 1-based group index.
// A step of zero means the group is a single job, otherwise the 1-based step in the chain.
func JobName(prefix string, group, step int) string {
	if prefix == "" {
		prefix = DefaultName
	}

	name := prefix + "-" + strconv.Itoa(group)
	if step > 0 {
		name += "-" + strconv.Itoa(step)
	}

	return name
}

// Args returns the bsub arguments for one job.
// If dependency is not empty the job waits for that job ID to finish successfully.
func Args(opts *Options, jobName, dependency string) []string {
	args := []string{"-J", jobName}

	if opts.Queue != "" {
		args = append(args, "-q", opts.Queue)
	}

	if opts.GPUs > 0 {
		mode := opts.GPUMode
		if mode == "" {
			mode = GPUModeExclusive
		}

		args = append(args, "-gpu", "num="+strconv.Itoa(opts.GPUs)+":mode="+mode)
	}

	if opts.CPUs > 1 {
		args = append(args, "-n", strconv.Itoa(opts.CPUs))
	}

	if opts.Memory != "" {
		args = append(args, "-M", opts.Memory)
	}

	if opts.Walltime != "" {
		args = append(args, "-W", opts.Walltime)
	}

	logDir := opts.LogDir
	if logDir == "" {
		logDir = "."
	}

	args = append(args,
		"-o", path.Join(logDir, jobName+".%J.out"),
		"-e", path.Join(logDir, jobName+".%J.err"),
	)

	if dependency != "" {
		args = append(args, "-w", "done("+dependency+")")
	}

	return append(args, opts.ExtraArgs...)
}

// Script returns the job script passed to bsub on standard input.
func Script(command string) []byte {
	return []byte(scriptHeader + strings.TrimRight(command, "\n") + "\n")
}

// CommandLine renders a bsub invocation as a shell command line.
func CommandLine(bsub string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(bsub))

	for _, a := range args {
		parts = append(parts, quote(a))
	}

	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}

	if strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=%,+@", r))
	}) < 0 {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
