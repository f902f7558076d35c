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

package multipath

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/NVIDIA/multipath-exporter/pkg/defaults"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/runner"
)

// Client queries multipathd for the current map state.
type Client struct {
	exec    runner.Executor
	binary  string
	timeout time.Duration
}

// Option is a functional option for configuring Client instances.
type Option func(*Client)

// WithBinary sets the multipathd binary.
func WithBinary(binary string) Option {
	return func(c *Client) {
		c.binary = binary
	}
}

// WithTimeout sets the bound for the show command.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a Client that runs commands through exec.
func NewClient(exec runner.Executor, opts ...Option) *Client {
	c := &Client{
		exec:    exec,
		binary:  defaults.MultipathdBinary,
		timeout: defaults.CommandTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) command() runner.Command {
	return runner.Command{
		Name:    c.binary,
		Args:    []string{"show", "maps", "json"},
		Timeout: c.timeout,
	}
}

// Load runs the show command and decodes its output. The returned error is
// coded ErrCodeTimeout, ErrCodeExecFailed, ErrCodeInterrupted or
// ErrCodeParse.
func (c *Client) Load(ctx context.Context) (*Maps, error) {
	cmd := c.command()
	out, err := c.exec.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	slog.Debug("multipathd response", "command", cmd.String(), "bytes", len(out))
	return Decode(out)
}

// Fetch is Load with failures logged and reported as absent data.
func (c *Client) Fetch(ctx context.Context) (*Maps, bool) {
	maps, err := c.Load(ctx)
	if err != nil {
		slog.Error("cannot get valid data from multipathd",
			"command", c.command().String(),
			"code", errors.CodeOf(err),
			"error", err)
		return nil, false
	}
	return maps, true
}

// Decode parses a "show maps json" document. multipathd answers some
// failures with plain text such as "fail" or "timeout" and a zero exit
// status; those are reported as ErrCodeParse.
func Decode(data []byte) (*Maps, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeParse, "empty multipathd response")
	}
	if trimmed[0] != '{' {
		return nil, errors.NewWithContext(errors.ErrCodeParse, "multipathd response is not JSON",
			map[string]any{"response": truncate(string(trimmed), 128)})
	}

	var doc struct {
		MajorVersion *int              `json:"major_version"`
		MinorVersion *int              `json:"minor_version"`
		Maps         []json.RawMessage `json:"maps"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, "failed to decode multipathd response", err)
	}

	maps := &Maps{
		MajorVersion: doc.MajorVersion,
		MinorVersion: doc.MinorVersion,
		Maps:         make([]Map, 0, len(doc.Maps)),
	}
	for i, raw := range doc.Maps {
		var m Map
		if err := json.Unmarshal(raw, &m); err != nil {
			slog.Warn("skipping multipath map with invalid field",
				"map", rawName(raw),
				"index", i,
				"error", err)
			continue
		}
		maps.Maps = append(maps.Maps, m)
	}
	return maps, nil
}

// rawName extracts the map name from an entry that failed to decode.
func rawName(raw json.RawMessage) string {
	var entry struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Name == "" {
		return "<unnamed>"
	}
	return entry.Name
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
