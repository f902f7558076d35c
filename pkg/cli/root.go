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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/logging"
	"github.com/NVIDIA/multipath-exporter/pkg/snapshotter"
)

const (
	name           = "multipath-exporter"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the exporter command line. It exits the process with status
// 1 on any error, including an interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().Run(ctx, os.Args)
	stop()
	if err == nil {
		return
	}

	if errors.IsCode(err, errors.ErrCodeInterrupted) {
		slog.Warn("exporter interrupted", "error", err)
	} else {
		slog.Error("exporter failed", "code", string(errors.CodeOf(err)), "error", err)
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Prometheus exporter for multipathd LUN path state",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Description: `Validates the host, then polls "multipathd show maps json" every
collect interval and serves the number of paths per LUN on the metrics
endpoint:

  multipathd_lun_paths{uuid="3600508b4000156d700012000000b0000",dm_st="active"} 4

Must run as root with multipath-tools in the supported version range.`,
		EnableShellCompletion: true,
		Flags:                 configFlags(),
		Before:                initLogger,
		Action:                runServe,
		Commands: []*cli.Command{
			collectCmd(),
		},
	}
}

// initLogger installs the default logger before any command runs so
// configuration errors are logged in the same format.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logLevel := cmd.String("log-level")
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", logLevel)
	return ctx, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.LogLevel != cmd.String("log-level") {
		logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	}

	slog.Info("starting exporter",
		"address", cfg.Addr(),
		"metricsPath", cfg.MetricsPath,
		"collectInterval", cfg.CollectInterval.String(),
		"cmdTimeout", cfg.CommandTimeout.String())

	s, err := snapshotter.New(cfg,
		snapshotter.WithName(name),
		snapshotter.WithVersion(version),
	)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}
