// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/gpubatch/internal/bsub"
)

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// walltimePattern matches LSF run limits, either [H]H:MM or plain minutes.
var walltimePattern = regexp.MustCompile(`^(\d+:[0-5]\d|\d+)$`)

// Config holds the submission settings.
type Config struct {
	Queue       string            `yaml:"queue" hcl:"queue,optional"`
	GPUs        int               `yaml:"gpus" hcl:"gpus,optional"`
	GPUMode     string            `yaml:"gpu_mode" hcl:"gpu_mode,optional"`
	CPUs        int               `yaml:"cpus" hcl:"cpus,optional"`
	Memory      string            `yaml:"memory" hcl:"memory,optional"`
	Walltime    string            `yaml:"walltime" hcl:"walltime,optional"`
	Name        string            `yaml:"name" hcl:"name,optional"`
	LogDir      string            `yaml:"log_dir" hcl:"log_dir,optional"`
	Bsub        string            `yaml:"bsub" hcl:"bsub,optional"`
	Env         map[string]string `yaml:"env,omitempty" hcl:"env,optional"`
	ExtraArgs   []string          `yaml:"extra_args,omitempty" hcl:"extra_args,optional"`
	Parallelism int               `yaml:"parallelism" hcl:"parallelism,optional"`
}

// Defaults returns the built-in settings.
func Defaults() *Config {
	return &Config{
		GPUs:    1,
		GPUMode: bsub.GPUModeExclusive,
		CPUs:    1,
		Name:    bsub.DefaultName,
		LogDir:  "logs",
		Bsub:    bsub.DefaultBsub,
	}
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.GPUs < 0 {
		result = multierror.Append(result, fmt.Errorf("gpus must be zero or more, got %d", c.GPUs))
	}

	if c.CPUs < 1 {
		result = multierror.Append(result, fmt.Errorf("cpus must be at least 1, got %d", c.CPUs))
	}

	if c.Walltime != "" && !walltimePattern.MatchString(c.Walltime) {
		result = multierror.Append(result, fmt.Errorf("walltime must be [H]H:MM or minutes, got %q", c.Walltime))
	}

	if !slices.Contains([]string{bsub.GPUModeExclusive, bsub.GPUModeShared}, c.GPUMode) {
		result = multierror.Append(result, fmt.Errorf("gpu_mode must be %s or %s, got %q",
			bsub.GPUModeExclusive, bsub.GPUModeShared, c.GPUMode))
	}

	if c.Parallelism < 0 {
		result = multierror.Append(result, fmt.Errorf("parallelism must be zero or more, got %d", c.Parallelism))
	}

	if c.Name == "" {
		result = multierror.Append(result, errors.New("name must not be empty"))
	}

	for k := range c.Env {
		if k == "" {
			result = multierror.Append(result, errors.New("env keys must not be empty"))
			break
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

// Options returns the submission options for c.
func (c *Config) Options() *bsub.Options {
	return &bsub.Options{
		Bsub:        c.Bsub,
		Queue:       c.Queue,
		GPUs:        c.GPUs,
		GPUMode:     c.GPUMode,
		CPUs:        c.CPUs,
		Memory:      c.Memory,
		Walltime:    c.Walltime,
		Name:        c.Name,
		LogDir:      c.LogDir,
		Env:         maps.Clone(c.Env),
		ExtraArgs:   slices.Clone(c.ExtraArgs),
		Parallelism: c.Parallelism,
	}
}

// String summarises the resources each job requests.
func (c *Config) String() string {
	s := "queue=" + c.Queue + " gpus=" + strconv.Itoa(c.GPUs) + " cpus=" + strconv.Itoa(c.CPUs)
	if c.Walltime != "" {
		s += " walltime=" + c.Walltime
	}

	return s
}
