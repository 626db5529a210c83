// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs trees of commands and collects their results.
//
// Leaves are OSCommands. A SerialBatch runs its children in order and stops at the first
// failure, optionally handing each child the result of the one before it. A ParallelBatch
// runs its children concurrently, with an optional limit. Batches nest.
package runbatch
