// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads gpu-batch settings.
//
// Settings are layered: built-in defaults, then a YAML or HCL config file,
// then GPU_BATCH_* environment variables. Command-line flags are applied on
// top by the caller.
package config
