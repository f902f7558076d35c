// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/NVIDIA/multipath-exporter/pkg/defaults"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
)

// maxDiagnosticBytes caps the amount of stderr attached to a failure.
const maxDiagnosticBytes = 1024

// Command describes one external process invocation.
type Command struct {
	// Name is the program to run, resolved through PATH when not absolute.
	Name string

	// Args are passed verbatim as the argument vector.
	Args []string

	// Timeout is the wall-clock bound. Zero means defaults.CommandTimeout.
	Timeout time.Duration

	// MergeStderr appends standard error to the captured standard output.
	MergeStderr bool
}

// String returns the command line for logging.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func (c Command) label() string {
	return filepath.Base(c.Name)
}

// Executor runs a Command and returns its captured output.
// Implementations return either output and a nil error, or a nil slice and
// a StructuredError coded ErrCodeTimeout, ErrCodeExecFailed or
// ErrCodeInterrupted.
type Executor interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// Runner is the os/exec backed Executor.
type Runner struct {
	waitDelay time.Duration
}

// Option is a functional option for configuring Runner instances.
type Option func(*Runner)

// WithWaitDelay sets how long Run waits for output pipes to close after the
// process has been killed or has exited.
func WithWaitDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.waitDelay = d
	}
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{
		waitDelay: defaults.CommandWaitDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the command and waits for it to exit or for its timeout to
// expire, whichever comes first. No process from the command's group is
// left running when the bound expires.
func (r *Runner) Run(ctx context.Context, c Command) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaults.CommandTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	configureProcessGroup(cmd)
	cmd.WaitDelay = r.waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if c.MergeStderr {
		cmd.Stderr = &stdout
	} else {
		cmd.Stderr = &stderr
	}

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	commandDuration.WithLabelValues(c.label()).Observe(elapsed.Seconds())

	// Descendants that outlive the command are killed with its group.
	sweepProcessGroup(cmd)

	if stderrors.Is(err, exec.ErrWaitDelay) && runCtx.Err() == nil {
		slog.Warn("command left descendants holding its output open",
			"command", c.String())
		err = nil
	}

	if err == nil {
		slog.Debug("command completed",
			"command", c.String(),
			"duration", elapsed.String(),
			"bytes", stdout.Len())
		return stdout.Bytes(), nil
	}

	switch {
	case ctx.Err() != nil:
		commandFailures.WithLabelValues(c.label(), reasonCancelled).Inc()
		return nil, errors.WrapWithContext(errors.ErrCodeInterrupted,
			"command cancelled", ctx.Err(), map[string]any{
				"command": c.String(),
			})

	case stderrors.Is(runCtx.Err(), context.DeadlineExceeded):
		commandFailures.WithLabelValues(c.label(), reasonTimeout).Inc()
		slog.Warn("process killed by timeout",
			"command", c.String(),
			"timeout", timeout.String(),
			"discarded_bytes", stdout.Len())
		return nil, errors.WrapWithContext(errors.ErrCodeTimeout,
			"command exceeded its time limit", runCtx.Err(), map[string]any{
				"command": c.String(),
				"timeout": timeout.String(),
			})
	}

	commandFailures.WithLabelValues(c.label(), reasonExec).Inc()

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		diag := stderr.String()
		if c.MergeStderr {
			diag = stdout.String()
		}
		return nil, errors.WrapWithContext(errors.ErrCodeExecFailed,
			"command exited with non-zero status", err, map[string]any{
				"command":   c.String(),
				"exit_code": exitErr.ExitCode(),
				"stderr":    truncate(strings.TrimSpace(diag), maxDiagnosticBytes),
			})
	}

	return nil, errors.WrapWithContext(errors.ErrCodeExecFailed,
		"command could not be started", err, map[string]any{
			"command": c.String(),
		})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
