// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config provides the config command, which prints the effective configuration.
package config

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/gpubatch/cmd/settings"
	"github.com/urfave/cli/v3"
)

// ConfigCmd is the command that prints the effective configuration.
var ConfigCmd = &cli.Command{
	Name:  "config",
	Usage: "Print the effective configuration as YAML",
	Description: `Print the configuration that submit would use, after applying the config file,
GPU_BATCH_* environment variables and any flags given here.
The output is a valid .gpu-batch.yaml file.`,
	Flags:  settings.Flags(),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg, path, err := settings.Resolve(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	out, err := cfg.YAML()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	w := cmd.Root().Writer

	if path != "" {
		fmt.Fprintf(w, "# loaded from %s\n", path) //nolint:errcheck
	}

	_, err = w.Write(out)

	return err
}
