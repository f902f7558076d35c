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

package validator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/NVIDIA/multipath-exporter/pkg/defaults"
	"github.com/NVIDIA/multipath-exporter/pkg/runner"
	"github.com/NVIDIA/multipath-exporter/pkg/version"
)

// Validator checks host privilege and the installed multipath-tools version.
type Validator struct {
	exec     runner.Executor
	binary   string
	program  string
	versions version.Range
	timeout  time.Duration
	euid     func() int
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithExecutor sets the command executor used for "multipath --help".
func WithExecutor(e runner.Executor) Option {
	return func(v *Validator) {
		v.exec = e
	}
}

// WithBinary sets the multipath binary.
func WithBinary(binary string) Option {
	return func(v *Validator) {
		v.binary = binary
	}
}

// WithProgram sets the program name expected on the version line.
func WithProgram(program string) Option {
	return func(v *Validator) {
		v.program = program
	}
}

// WithVersionRange sets the inclusive supported version range.
func WithVersionRange(r version.Range) Option {
	return func(v *Validator) {
		v.versions = r
	}
}

// WithTimeout sets the bound for the help command.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		v.timeout = d
	}
}

// WithEUID overrides how the effective user id is obtained.
func WithEUID(f func() int) Option {
	return func(v *Validator) {
		v.euid = f
	}
}

// New creates a new Validator with the provided options.
func New(opts ...Option) *Validator {
	v := &Validator{
		exec:    runner.New(),
		binary:  defaults.MultipathBinary,
		program: defaults.MultipathProgram,
		versions: version.Range{
			Min: version.MustParseVersion(defaults.MinMultipathVersion),
			Max: version.MustParseVersion(defaults.MaxMultipathVersion),
		},
		timeout: defaults.CommandTimeout,
		euid:    os.Geteuid,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the privilege and version checks. It stops at the first
// failed check.
func (v *Validator) Validate(ctx context.Context) Eligibility {
	e := v.validate(ctx)
	if e.Eligible {
		slog.Info("host validated", "version", e.Version, "range", v.versions.String())
	} else {
		slog.Error("host is not eligible", "reason", e.Reason)
	}
	return e
}

func (v *Validator) validate(ctx context.Context) Eligibility {
	if uid := v.euid(); uid != 0 {
		return ineligible("", fmt.Sprintf("insufficient privilege: must be run as root, uid %d != 0", uid))
	}

	cmd := runner.Command{
		Name:        v.binary,
		Args:        []string{"--help"},
		Timeout:     v.timeout,
		MergeStderr: true,
	}
	out, err := v.exec.Run(ctx, cmd)
	if err != nil {
		return ineligible("", fmt.Sprintf("cannot check multipath version: %v", err))
	}
	help := string(out)
	slog.Debug("multipath help response", "output", firstLines(help, 5))

	token, err := ExtractVersion(help, v.program)
	if err != nil {
		return ineligible("", ReasonVersionNotFound)
	}
	slog.Debug("multipath version found", "version", token)

	found, err := version.ParseVersion(token)
	if err != nil {
		return ineligible(token, fmt.Sprintf("unparseable version %q: %v", token, err))
	}

	if !v.versions.Contains(found) {
		return ineligible(found.String(), fmt.Sprintf(
			"multipath version %s is unsupported, must be between %s and %s",
			found, v.versions.Min, v.versions.Max))
	}

	return eligible(found.String(), fmt.Sprintf("multipath version %s is supported", found))
}
