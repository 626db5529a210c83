// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package settings holds the flags shared by the commands that need the effective configuration.
package settings

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/gpubatch/internal/config"
	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	ConfigFlag      = "config"
	QueueFlag       = "queue"
	GPUFlag         = "gpu"
	GPUModeFlag     = "gpu-mode"
	CPUsFlag        = "cpus"
	MemoryFlag      = "memory"
	WalltimeFlag    = "walltime"
	NameFlag        = "name"
	LogDirFlag      = "log-dir"
	BsubFlag        = "bsub"
	EnvFlag         = "env"
	ExtraArgFlag    = "extra-arg"
	ParallelismFlag = "parallelism"
)

// ErrResolve is returned when the effective configuration cannot be built.
var ErrResolve = errors.New("failed to resolve configuration")

// Flags returns a new set of the configuration flags.
// Each call returns new flag values so the flags can be added to more than one command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      ConfigFlag,
			Aliases:   []string{"c"},
			Usage:     "Config file, YAML or HCL. Defaults to .gpu-batch.yaml, .gpu-batch.yml or gpu-batch.hcl here, then ~/.config/gpu-batch/config.yaml",
			TakesFile: true,
			Sources:   cli.EnvVars(config.EnvVar("config")),
		},
		&cli.StringFlag{
			Name:    QueueFlag,
			Aliases: []string{"q"},
			Usage:   "LSF queue to submit to",
			Sources: cli.EnvVars(config.EnvVar("queue")),
		},
		&cli.IntFlag{
			Name:    GPUFlag,
			Aliases: []string{"g"},
			Usage:   "GPUs per job, 0 submits without a GPU request",
			Sources: cli.EnvVars(config.EnvVar("gpus")),
		},
		&cli.StringFlag{
			Name:    GPUModeFlag,
			Usage:   "GPU mode, exclusive_process or shared",
			Sources: cli.EnvVars(config.EnvVar("gpu_mode")),
		},
		&cli.IntFlag{
			Name:    CPUsFlag,
			Aliases: []string{"n"},
			Usage:   "CPU slots per job",
			Sources: cli.EnvVars(config.EnvVar("cpus")),
		},
		&cli.StringFlag{
			Name:    MemoryFlag,
			Aliases: []string{"M"},
			Usage:   "Memory limit per job, passed to bsub -M",
			Sources: cli.EnvVars(config.EnvVar("memory")),
		},
		&cli.StringFlag{
			Name:    WalltimeFlag,
			Aliases: []string{"W"},
			Usage:   "Run time limit, [H]H:MM or minutes",
			Sources: cli.EnvVars(config.EnvVar("walltime")),
		},
		&cli.StringFlag{
			Name:    NameFlag,
			Aliases: []string{"J"},
			Usage:   "Job name prefix",
			Sources: cli.EnvVars(config.EnvVar("name")),
		},
		&cli.StringFlag{
			Name:      LogDirFlag,
			Aliases:   []string{"o"},
			Usage:     "Directory for job output and error files",
			TakesFile: true,
			Sources:   cli.EnvVars(config.EnvVar("log_dir")),
		},
		&cli.StringFlag{
			Name:      BsubFlag,
			Usage:     "bsub executable",
			TakesFile: true,
			Sources:   cli.EnvVars(config.EnvVar("bsub")),
		},
		&cli.StringSliceFlag{
			Name:    EnvFlag,
			Aliases: []string{"e"},
			Usage:   "KEY=VALUE added to the job environment, can be repeated",
		},
		&cli.StringSliceFlag{
			Name:  ExtraArgFlag,
			Usage: "Extra argument passed to bsub, can be repeated",
		},
		&cli.IntFlag{
			Name:    ParallelismFlag,
			Aliases: []string{"p"},
			Usage:   "Maximum concurrent bsub invocations, 0 for no limit",
			Sources: cli.EnvVars(config.EnvVar("parallelism")),
		},
	}
}

// Resolve builds the effective configuration: defaults, then the config file,
// then GPU_BATCH_* environment variables, then flags. It returns the config file used, if any.
func Resolve(ctx context.Context, cmd *cli.Command) (*config.Config, string, error) {
	path := cmd.String(ConfigFlag)
	if path == "" {
		wd, _ := os.Getwd()
		home, _ := os.UserHomeDir()
		path = config.Discover(wd, home)
	}

	ctxlog.Debug(ctx, "loading config", "path", path)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, errors.Join(ErrResolve, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, path, errors.Join(ErrResolve, err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, path, errors.Join(ErrResolve, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, errors.Join(ErrResolve, err)
	}

	return cfg, path, nil
}

func applyFlags(cmd *cli.Command, cfg *config.Config) error {
	str := map[string]*string{
		QueueFlag:    &cfg.Queue,
		GPUModeFlag:  &cfg.GPUMode,
		MemoryFlag:   &cfg.Memory,
		WalltimeFlag: &cfg.Walltime,
		NameFlag:     &cfg.Name,
		LogDirFlag:   &cfg.LogDir,
		BsubFlag:     &cfg.Bsub,
	}

	for name, dst := range str {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}

	num := map[string]*int{
		GPUFlag:         &cfg.GPUs,
		CPUsFlag:        &cfg.CPUs,
		ParallelismFlag: &cfg.Parallelism,
	}

	for name, dst := range num {
		if cmd.IsSet(name) {
			*dst = cmd.Int(name)
		}
	}

	if cmd.IsSet(ExtraArgFlag) {
		cfg.ExtraArgs = cmd.StringSlice(ExtraArgFlag)
	}

	if cmd.IsSet(EnvFlag) {
		env, err := config.ParseEnvPairs(cmd.StringSlice(EnvFlag))
		if err != nil {
			return err
		}

		cfg.MergeEnv(env)
	}

	return nil
}
