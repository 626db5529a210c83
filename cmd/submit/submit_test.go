// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submit

import (
	"bytes"
	"context"
	"io"
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

func TestSubmitCmd_DryRun(t *testing.T) {
	dir := t.TempDir()

	cfgFile := filepath.Join(dir, "gpu-batch.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("queue: gpu\nname: t\ngpus: 2\n"), 0o600))

	jobs := filepath.Join(dir, "jobs.txt")
	require.NoError(t, os.WriteFile(jobs, []byte(strings.Join([]string{
		"prep # first",
		"<sequential>",
		"train \\",
		"  --lr 1",
		"eval",
		"</sequential>",
	}, "\n")), 0o600))

	out := &bytes.Buffer{}
	root := &cli.Command{
		Name:      "gpu-batch",
		Writer:    out,
		ErrWriter: io.Discard,
		Commands:  []*cli.Command{SubmitCmd},
	}

	err := root.Run(context.Background(), []string{
		"gpu-batch", "submit", "--dry-run", "--config", cfgFile, "-p", "1", jobs,
	})
	require.NoError(t, err)

	want := "bsub -J t-1 -q gpu -gpu num=2:mode=exclusive_process -o logs/t-1.%J.out -e logs/t-1.%J.err <<'GPU_BATCH_EOF'\n" +
		"#!/bin/bash\nprep\nGPU_BATCH_EOF\n" +
		"bsub -J t-2-1 -q gpu -gpu num=2:mode=exclusive_process -o logs/t-2-1.%J.out -e logs/t-2-1.%J.err <<'GPU_BATCH_EOF'\n" +
		"#!/bin/bash\ntrain \\\n  --lr 1\nGPU_BATCH_EOF\n" +
		"bsub -J t-2-2 -q gpu -gpu num=2:mode=exclusive_process -o logs/t-2-2.%J.out -e logs/t-2-2.%J.err -w 'done(dry-2)' <<'GPU_BATCH_EOF'\n" +
		"#!/bin/bash\neval\nGPU_BATCH_EOF\n"

	assert.Equal(t, want, out.String())
	assert.NoDirExists(t, "logs")
}

func TestSummary(t *testing.T) {
	groups := joblist.Groups{{"a"}, {"b", "c"}, {"d"}}
	cfg := config.Defaults()

	assert.Equal(t, "Submit 4 jobs (2 independent, 2 in 1 chains) to the default queue with 1 GPUs each?", Summary(groups, cfg))

	cfg.Queue = "gpu"
	cfg.GPUs = 4
	assert.Equal(t, "Submit 4 jobs (2 independent, 2 in 1 chains) to gpu with 4 GPUs each?", Summary(groups, cfg))
}
