// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() Results {
	return Results{
		{
			Label:  "jobs",
			Status: ResultStatusError,
			Error:  ErrResultChildrenHasError,
			Children: Results{
				{Label: "jobs-1", Status: ResultStatusSuccess, JobID: "11"},
				{
					Label:  "jobs-2",
					Status: ResultStatusError,
					Error:  ErrResultChildrenHasError,
					Children: Results{
						{Label: "jobs-2-1", Status: ResultStatusSuccess, JobID: "12"},
						{Label: "jobs-2-2", Status: ResultStatusError, ExitCode: 255, StdErr: []byte("queue closed\n")},
						{Label: "jobs-2-3", Status: ResultStatusSkipped, Error: ErrSkipOnError},
					},
				},
			},
		},
	}
}

func TestResults_HasError(t *testing.T) {
	assert.True(t, sampleResults().HasError())
	assert.False(t, Results{{Status: ResultStatusSuccess}, {Status: ResultStatusSkipped, Error: ErrSkipIntentional}}.HasError())
	assert.True(t, Results{{Status: ResultStatusSuccess, Children: Results{{Status: ResultStatusError}}}}.HasError())
	assert.False(t, Results(nil).HasError())
}

func TestResults_JobIDs(t *testing.T) {
	assert.Equal(t, []string{"11", "12"}, sampleResults().JobIDs())
	assert.Empty(t, Results(nil).JobIDs())
}

func TestResultStatus_String(t *testing.T) {
	assert.Equal(t, "success", ResultStatusSuccess.String())
	assert.Equal(t, "error", ResultStatusError.String())
	assert.Equal(t, "skipped", ResultStatusSkipped.String())
	assert.Equal(t, "unknown", ResultStatusUnknown.String())
}

func TestResults_Binary(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, sampleResults().WriteBinary(buf))

	got, err := ReadBinary(buf)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "jobs", got[0].Label)
	require.ErrorIs(t, got[0].Error, ErrResultChildrenHasError)
	require.ErrorIs(t, got[0].Children[1].Children[2].Error, ErrSkipOnError)
	assert.Equal(t, []string{"11", "12"}, got.JobIDs())

	failed := got[0].Children[1].Children[1]
	assert.Equal(t, 255, failed.ExitCode)
	assert.Equal(t, "queue closed\n", string(failed.StdErr))
	assert.True(t, got.HasError())
}

func TestReadBinary_Garbage(t *testing.T) {
	_, err := ReadBinary(bytes.NewBufferString("not gob"))
	require.ErrorIs(t, err, ErrReadGob)
}

func TestResults_WriteText(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, sampleResults().WriteText(buf))

	out := buf.String()
	assert.Contains(t, out, "jobs-1")
	assert.Contains(t, out, "(job 11)")
	assert.Contains(t, out, "(exit code: 255)")
	assert.Contains(t, out, "queue closed")
	assert.Contains(t, out, "jobs-2-3")
}

func TestResults_WriteTextWithOptions(t *testing.T) {
	res := Results{{Label: "ok", Status: ResultStatusSuccess, StdOut: []byte("Job <1> is submitted to queue <gpu>.\n"), JobID: "1"}}

	buf := &bytes.Buffer{}
	require.NoError(t, res.WriteText(buf))
	assert.NotContains(t, buf.String(), "is submitted")

	buf.Reset()
	require.NoError(t, res.WriteTextWithOptions(buf, &OutputOptions{
		IncludeStdOut:      true,
		ShowSuccessDetails: true,
	}))
	assert.Contains(t, buf.String(), "is submitted")
}
