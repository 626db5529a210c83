// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries submission lifecycle events from the runbatch tree
// to listeners such as the terminal UI.
package progress
