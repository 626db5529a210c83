// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matt-FFFFFF/gpubatch/internal/ctxlog"
	"github.com/matt-FFFFFF/gpubatch/internal/progress"
	"github.com/matt-FFFFFF/gpubatch/internal/signalbroker"
)

const (
	maxBufferSize = 8 * 1024 * 1024 // 8MB
)

var _ Runnable = (*OSCommand)(nil)

var (
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when the buffer from the operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrFailedToWriteStdin is returned when the standard input could not be written to the process.
	ErrFailedToWriteStdin = errors.New("failed to write stdin")
	// ErrCancelled is returned when the context is cancelled while the process is running.
	ErrCancelled = errors.New("cancelled, process killed")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// OSCommand runs a single operating system process.
type OSCommand struct {
	*BaseCommand
	Path             string         // Absolute path of the executable
	Args             []string       // Arguments, not including the executable name
	Stdin            []byte         // Written to the process's standard input, which is then closed
	SuccessExitCodes []int          // Exit codes that indicate success, defaults to 0
	ResultHook       func(*Result)  // Called with the result before it is reported
	sigCh            chan os.Signal // Signals forwarded to the process, allows mocking in test
}

// Run implements Runnable.
func (c *OSCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "OSCommand").
		With("label", FullLabel(c))

	logger.Debug("command info", "path", c.Path, "cwd", c.Cwd, "args", c.Args)
	c.Report(c, progress.EventStarted, "starting "+filepath.Base(c.Path), nil)

	res := c.run(ctx, logger)
	if c.ResultHook != nil {
		c.ResultHook(res)
	}

	c.ReportResult(c, res)

	return Results{res}
}

func (c *OSCommand) run(ctx context.Context, logger *slog.Logger) *Result {
	res := &Result{
		Label:  c.Label,
		Status: ResultStatusUnknown,
	}

	fail := func(err error) *Result {
		res.Error = err
		res.ExitCode = -1
		res.Status = ResultStatusError

		return res
	}

	if ctx.Err() != nil {
		return fail(errors.Join(ErrCancelled, ctx.Err()))
	}

	successCodes := c.SuccessExitCodes
	if len(successCodes) == 0 {
		successCodes = []int{0}
	}

	sigCh := c.sigCh
	if sigCh == nil {
		sigCh = signalbroker.New(ctx)
		defer signalbroker.Stop(sigCh)
	}

	env := os.Environ()
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return fail(errors.Join(ErrFailedToCreatePipe, err))
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeAll(rOut, wOut)
		return fail(errors.Join(ErrFailedToCreatePipe, err))
	}

	rIn, wIn, err := os.Pipe()
	if err != nil {
		closeAll(rOut, wOut, rErr, wErr)
		return fail(errors.Join(ErrFailedToCreatePipe, err))
	}

	ps, err := os.StartProcess(c.Path, slices.Concat([]string{filepath.Base(c.Path)}, c.Args), &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   env,
		Files: []*os.File{rIn, wOut, wErr},
	})

	// The child holds its own copies of these now.
	closeAll(rIn, wOut, wErr)

	if err != nil {
		closeAll(wIn, rOut, rErr)
		return fail(errors.Join(ErrCouldNotStartProcess, err))
	}

	logger.Debug("process started", "pid", ps.Pid)

	var (
		wg             sync.WaitGroup
		stdout, stderr []byte
		outErr, errErr error
		inErr          error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		defer wIn.Close() //nolint:errcheck

		if len(c.Stdin) == 0 {
			return
		}

		if _, err := wIn.Write(c.Stdin); err != nil {
			inErr = errors.Join(ErrFailedToWriteStdin, err)
		}
	}()

	go func() {
		defer wg.Done()
		defer rOut.Close() //nolint:errcheck

		stdout, outErr = readAllUpToMax(rOut, maxBufferSize)
	}()

	go func() {
		defer wg.Done()
		defer rErr.Close() //nolint:errcheck

		stderr, errErr = readAllUpToMax(rErr, maxBufferSize)
	}()

	done := make(chan struct{})
	killed := make(chan error, 1)
	watchdogDone := make(chan struct{})

	go func() {
		defer close(watchdogDone)
		c.watch(ctx, ps, sigCh, done, killed, logger)
	}()

	state, psErr := ps.Wait()

	close(done)
	<-watchdogDone
	wg.Wait()

	res.StdOut = stdout
	res.StdErr = stderr
	res.Error = errors.Join(psErr, outErr, errErr, inErr)

	res.ExitCode = -1
	if state != nil {
		res.ExitCode = state.ExitCode()
	}

	logger.Debug("process finished", "exitCode", res.ExitCode)

	select {
	case e := <-killed:
		res.Error = errors.Join(res.Error, e)
		res.ExitCode = -1
	default:
	}

	switch {
	case res.Error == nil && slices.Contains(successCodes, res.ExitCode):
		res.Status = ResultStatusSuccess
	default:
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}

		res.Status = ResultStatusError
	}

	return res
}

// watch forwards signals to the process and kills it on a repeated signal or when ctx is done.
// It returns once done is closed or the process has been killed.
func (c *OSCommand) watch(
	ctx context.Context,
	ps *os.Process,
	sigCh <-chan os.Signal,
	done <-chan struct{},
	killed chan<- error,
	logger *slog.Logger,
) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-done:
			return

		case <-ctx.Done():
			logger.Info("context done, killing process", "pid", ps.Pid)
			killPs(ps)

			killed <- ErrCancelled

			return

		case s, ok := <-sigCh:
			if !ok {
				sigCh = nil
				continue
			}

			if _, dup := seen[s]; dup {
				logger.Info("received duplicate signal, killing process", "signal", s.String())
				killPs(ps)

				killed <- ErrDuplicateSignalReceived

				return
			}

			seen[s] = struct{}{}

			logger.Info("forwarding signal", "signal", s.String())

			if err := ps.Signal(s); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logger.Info("failed to send signal", "signal", s.String(), "error", err)
			}
		}
	}
}

func readAllUpToMax(r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, limit+1)
	if err != nil && !errors.Is(err, io.EOF) {
		return buf.Bytes(), errors.Join(ErrFailedToReadBuffer, err)
	}

	if n > limit {
		// Drain the rest so the process is not blocked writing to a full pipe.
		_, _ = io.Copy(io.Discard, r)
		return buf.Bytes()[:limit], ErrBufferOverflow
	}

	return buf.Bytes(), nil
}

func killPs(ps *os.Process) {
	_ = ps.Kill()
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
