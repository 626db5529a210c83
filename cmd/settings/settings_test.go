// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package settings

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/gpubatch/internal/config"
	"github.com/matt-FFFFFF/gpubatch/internal/joblist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// resolveWith runs a command carrying the settings flags and returns what Resolve produced.
func resolveWith(t *testing.T, args ...string) (*config.Config, string, error) {
	t.Helper()

	var (
		cfg  *config.Config
		path string
		err  error
	)

	cmd := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, path, err = Resolve(ctx, cmd)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))

	return cfg, path, err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	f := filepath.Join(t.TempDir(), "gpu-batch.yaml")
	require.NoError(t, os.WriteFile(f, []byte(content), 0o600))

	return f
}

func TestResolve_Layers(t *testing.T) {
	f := writeConfig(t, "queue: fileq\ncpus: 4\nname: file\nenv:\n  FROM: file\n")
	t.Setenv(config.EnvVar("name"), "envname")

	cfg, path, err := resolveWith(t,
		"--config", f,
		"-q", "flagq",
		"-e", "A=1",
		"--extra-arg=-R",
		"--extra-arg", "rusage[mem=4G]",
	)
	require.NoError(t, err)
	assert.Equal(t, f, path)

	assert.Equal(t, "flagq", cfg.Queue)
	assert.Equal(t, 4, cfg.CPUs)
	assert.Equal(t, "envname", cfg.Name)
	assert.Equal(t, 1, cfg.GPUs)
	assert.Equal(t, map[string]string{"FROM": "file", "A": "1"}, cfg.Env)
	assert.Equal(t, []string{"-R", "rusage[mem=4G]"}, cfg.ExtraArgs)
}

func TestResolve_Invalid(t *testing.T) {
	f := writeConfig(t, "")

	_, _, err := resolveWith(t, "--config", f, "--gpu=-1")
	require.ErrorIs(t, err, ErrResolve)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = resolveWith(t, "--config", f, "-e", "novalue")
	require.ErrorIs(t, err, ErrResolve)
	assert.ErrorIs(t, err, config.ErrEnvValue)
}

func TestResolve_MissingFile(t *testing.T) {
	_, _, err := resolveWith(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrResolve)
	assert.ErrorIs(t, err, config.ErrReadConfig)
}

func TestReadJobList(t *testing.T) {
	f := filepath.Join(t.TempDir(), "jobs.txt")
	require.NoError(t, os.WriteFile(f, []byte("a\nb\n"), 0o600))

	tcs := []struct {
		name    string
		args    []string
		stdin   string
		want    joblist.Groups
		wantErr error
	}{
		{name: "file", args: []string{f}, want: joblist.Groups{{"a"}, {"b"}}},
		{name: "stdin", args: []string{Stdin}, stdin: "<sequential>\nx\ny\n", want: joblist.Groups{{"x", "y"}}},
		{name: "missing", wantErr: ErrNoJobList},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var (
				got joblist.Groups
				err error
			)

			cmd := &cli.Command{
				Name:      "test",
				Reader:    strings.NewReader(tc.stdin),
				Arguments: []cli.Argument{JobListArgument()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					got, err = ReadJobList(ctx, cmd)
					return nil
				},
			}

			require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, tc.args...)))

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
