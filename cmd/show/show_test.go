// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package show

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/gpubatch/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func writeResults(t *testing.T) string {
	t.Helper()

	res := runbatch.Results{{
		Label:  "jobs",
		Status: runbatch.ResultStatusError,
		Error:  runbatch.ErrResultChildrenHasError,
		Children: runbatch.Results{
			{Label: "jobs-1", Status: runbatch.ResultStatusSuccess, JobID: "101"},
			{Label: "jobs-2", Status: runbatch.ResultStatusError, ExitCode: 255, Error: errors.New("queue closed")},
		},
	}}

	f := filepath.Join(t.TempDir(), "results.gob")
	fh, err := os.Create(f)
	require.NoError(t, err)
	require.NoError(t, res.WriteBinary(fh))
	require.NoError(t, fh.Close())

	return f
}

func runShow(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	root := &cli.Command{
		Name:      "gpu-batch",
		Writer:    out,
		ErrWriter: io.Discard,
		Commands:  []*cli.Command{ShowCmd},
	}

	err := root.Run(context.Background(), append([]string{"gpu-batch", "show"}, args...))

	return out.String(), err
}

func TestShowCmd(t *testing.T) {
	f := writeResults(t)

	out, err := runShow(t, f)
	require.NoError(t, err)
	assert.Contains(t, out, "jobs-2")
	assert.Contains(t, out, "queue closed")
}

func TestShowCmd_IDs(t *testing.T) {
	f := writeResults(t)

	out, err := runShow(t, "--ids", f)
	require.NoError(t, err)
	assert.Equal(t, "101\n", out)
}

func TestShowCmd_MissingFile(t *testing.T) {
	_, err := runShow(t, filepath.Join(t.TempDir(), "nope.gob"))
	require.ErrorIs(t, err, ErrReadFile)
}

func TestShowCmd_BatchErrorNotRepeated(t *testing.T) {
	f := writeResults(t)

	out, err := runShow(t, f)
	require.NoError(t, err)
	assert.NotContains(t, out, runbatch.ErrResultChildrenHasError.Error())
}
