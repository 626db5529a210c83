// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// EnvPrefix is prepended to upper-cased setting names to form environment variable names.
const EnvPrefix = "GPU_BATCH_"

// ErrEnvValue is returned when an environment variable holds an unusable value.
var ErrEnvValue = errors.New("invalid environment variable value")

// EnvVar returns the environment variable for a setting, e.g. "log_dir" gives GPU_BATCH_LOG_DIR.
func EnvVar(setting string) string {
	return EnvPrefix + strings.ToUpper(setting)
}

// ApplyEnv overrides settings from environment variables found with lookup.
// GPU_BATCH_ENV holds comma separated KEY=VALUE pairs and GPU_BATCH_EXTRA_ARGS is split on whitespace.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(setting string, dst *string) {
		if v, ok := lookup(EnvVar(setting)); ok {
			*dst = v
		}
	}

	num := func(setting string, dst *int) {
		v, ok := lookup(EnvVar(setting))
		if !ok {
			return
		}

		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrEnvValue, EnvVar(setting), v))
			return
		}

		*dst = n
	}

	str("queue", &c.Queue)
	num("gpus", &c.GPUs)
	str("gpu_mode", &c.GPUMode)
	num("cpus", &c.CPUs)
	str("memory", &c.Memory)
	str("walltime", &c.Walltime)
	str("name", &c.Name)
	str("log_dir", &c.LogDir)
	str("bsub", &c.Bsub)
	num("parallelism", &c.Parallelism)

	if v, ok := lookup(EnvVar("extra_args")); ok {
		c.ExtraArgs = strings.Fields(v)
	}

	if v, ok := lookup(EnvVar("env")); ok {
		env, err := ParseEnvPairs(strings.Split(v, ","))
		if err != nil {
			errs = append(errs, err)
		}

		c.MergeEnv(env)
	}

	return errors.Join(errs...)
}

// ParseEnvPairs parses KEY=VALUE strings. Empty strings are ignored.
func ParseEnvPairs(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))

	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return env, fmt.Errorf("%w: %q is not KEY=VALUE", ErrEnvValue, p)
		}

		env[k] = v
	}

	return env, nil
}

// MergeEnv adds env to the job environment, replacing existing keys.
func (c *Config) MergeEnv(env map[string]string) {
	if len(env) == 0 {
		return
	}

	if c.Env == nil {
		c.Env = make(map[string]string, len(env))
	}

	maps.Copy(c.Env, env)
}
