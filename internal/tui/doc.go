// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui shows submission progress as a live tree of job groups.
//
// Runner implements progress.Reporter, so it can be attached to any
// runbatch.Runnable. Each submission is shown with its state and, once bsub
// has accepted it, the job ID it was given.
package tui
