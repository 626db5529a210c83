// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package bsub turns grouped job lists into LSF submissions.
//
// Each group becomes one submission, or a chain of submissions where every
// step waits on the job ID of the step before it with `-w "done(ID)"`.
// Commands are passed to bsub on standard input as a bash script.
package bsub
