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
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/multipath-exporter/pkg/config"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/measurement"
	"github.com/NVIDIA/multipath-exporter/pkg/multipath"
	"github.com/NVIDIA/multipath-exporter/pkg/registry"
	"github.com/NVIDIA/multipath-exporter/pkg/runner"
	"github.com/NVIDIA/multipath-exporter/pkg/serializer"
	"github.com/NVIDIA/multipath-exporter/pkg/systemd"
	"github.com/NVIDIA/multipath-exporter/pkg/validator"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Run one refresh cycle and print the snapshot",
		Description: `Validates the host, reads "multipathd show maps json" once and prints
the resulting snapshot instead of serving it.

The text format is the Prometheus exposition a scrape would return; json,
yaml and table show the snapshot structure.

# Examples

  multipath-exporter collect
  multipath-exporter collect --format table
  multipath-exporter collect --format json --output snapshot.json`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-validation",
				Usage: "Read multipathd without checking privilege and version",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
			defer func() {
				if cerr := w.Close(); cerr != nil {
					slog.Warn("failed to close output", "error", cerr)
				}
			}()

			o := collectOptions{
				cfg:      cfg,
				exec:     runner.New(),
				euid:     os.Geteuid,
				validate: !cmd.Bool("skip-validation"),
			}
			if cfg.SystemdUnit != "" {
				o.unit = systemd.New(cfg.SystemdUnit)
			}
			return collect(ctx, o, w, format)
		},
	}
}

type collectOptions struct {
	cfg      config.Config
	exec     runner.Executor
	euid     func() int
	validate bool
	unit     *systemd.Collector
	now      func() time.Time
}

// collect runs one cycle and hands the snapshot to s. FormatText writes the
// exposition of a registry holding the snapshot.
func collect(ctx context.Context, o collectOptions, s serializer.Serializer, format serializer.Format) error {
	if o.validate {
		versions, err := o.cfg.VersionRange()
		if err != nil {
			return err
		}
		e := validator.New(
			validator.WithExecutor(o.exec),
			validator.WithBinary(o.cfg.MultipathBinary),
			validator.WithVersionRange(versions),
			validator.WithTimeout(o.cfg.CommandTimeout),
			validator.WithEUID(o.euid),
		).Validate(ctx)
		if err := e.Err(); err != nil {
			return err
		}
	}

	client := multipath.NewClient(o.exec,
		multipath.WithBinary(o.cfg.MultipathdBinary),
		multipath.WithTimeout(o.cfg.CommandTimeout),
	)
	maps, err := client.Load(ctx)
	if err != nil {
		return errors.WrapWithContext(errors.CodeOf(err), "cannot get valid data from multipathd", err,
			map[string]any{"binary": o.cfg.MultipathdBinary})
	}

	now := time.Now
	if o.now != nil {
		now = o.now
	}
	at := now()
	var extra []*measurement.DescriptorBuilder
	if o.unit != nil {
		b, err := o.unit.Collect(ctx)
		if err != nil {
			slog.Warn("cannot read systemd unit state", "error", err)
		} else {
			extra = append(extra, b)
		}
	}
	snap := multipath.BuildSnapshotAt(maps, at, extra...).Stamp(1, at)

	if format == serializer.FormatText {
		reg := registry.New()
		reg.Replace(snap)
		return s.Serialize(ctx, reg)
	}
	return s.Serialize(ctx, snap)
}

var _ serializer.TextWriter = (*registry.Registry)(nil)

