// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
)

// Watch reads sigCh until it is closed, calling cancel on the second signal of any one kind.
// It closes sigCh itself when it cancels.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "watchdog", "detail", "second signal received, cancelling submission", "signal", sig.String())
			Stop(sigCh)
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Info(ctx, "watchdog", "detail", "signal received, press again to cancel", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}
