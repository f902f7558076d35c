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

// Package runnertest provides a scripted runner.Executor for tests.
package runnertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/runner"
)

// Response is the scripted result for one command line.
type Response struct {
	Output []byte
	Err    error
}

// Executor answers commands from a table keyed by Command.String().
// Unknown commands fail with ErrCodeExecFailed.
type Executor struct {
	mu        sync.Mutex
	responses map[string][]Response
	calls     []runner.Command
}

// New creates an empty Executor.
func New() *Executor {
	return &Executor{responses: make(map[string][]Response)}
}

// On queues responses for a command line. Responses are consumed in order;
// the last one repeats once the queue is drained.
func (e *Executor) On(cmdline string, responses ...Response) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[cmdline] = append(e.responses[cmdline], responses...)
	return e
}

// OnOutput is a shorthand for a successful response.
func (e *Executor) OnOutput(cmdline, output string) *Executor {
	return e.On(cmdline, Response{Output: []byte(output)})
}

// OnTimeout is a shorthand for a response coded ErrCodeTimeout.
func (e *Executor) OnTimeout(cmdline string) *Executor {
	return e.On(cmdline, Response{Err: errors.New(errors.ErrCodeTimeout, "command exceeded its time limit")})
}

// Run implements runner.Executor.
func (e *Executor) Run(ctx context.Context, cmd runner.Command) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, cmd)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInterrupted, "command cancelled", err)
	}

	key := cmd.String()
	queue := e.responses[key]
	if len(queue) == 0 {
		return nil, errors.New(errors.ErrCodeExecFailed, fmt.Sprintf("unexpected command %q", key))
	}

	r := queue[0]
	if len(queue) > 1 {
		e.responses[key] = queue[1:]
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Output, nil
}

// Calls returns a copy of every command run so far.
func (e *Executor) Calls() []runner.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]runner.Command, len(e.calls))
	copy(out, e.calls)
	return out
}

var _ runner.Executor = (*Executor)(nil)
