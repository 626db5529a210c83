// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package joblist reads job-list files and groups their lines into units of submission.
//
// A job list has one command per line. Text after # is a comment. A line ending in \
// continues on the next line. Lines between <sequential> and </sequential> form a chain
// of jobs that must run one after another; every other job is independent.
package joblist
