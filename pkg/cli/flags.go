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
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/multipath-exporter/pkg/config"
	"github.com/NVIDIA/multipath-exporter/pkg/defaults"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/serializer"
)

const envPrefix = "MULTIPATH_EXPORTER_"

func env(name string) cli.ValueSourceChain {
	return cli.EnvVars(envPrefix + name)
}

// configFlags are shared by every command. They override values read from
// the --config file.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			Sources: env("CONFIG"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "listen-address",
			Usage:   "Address to bind the metrics server to (empty for all interfaces)",
			Sources: env("ADDRESS"),
		},
		&cli.IntFlag{
			Name:    "listen-port",
			Usage:   "Port to bind the metrics server to",
			Sources: env("PORT"),
			Value:   defaults.ListenPort,
		},
		&cli.StringFlag{
			Name:    "cmd-timeout",
			Usage:   "Time limit for each external command (e.g. 2s, or seconds as 2.0)",
			Sources: env("CMD_TIMEOUT"),
			Value:   defaults.CommandTimeout.String(),
		},
		&cli.StringFlag{
			Name:    "collect-interval",
			Usage:   "Delay between refresh cycles (e.g. 60s, or seconds as 60.0)",
			Sources: env("COLLECT_INTERVAL"),
			Value:   defaults.CollectInterval.String(),
		},
		&cli.StringFlag{
			Name:    "min-version",
			Usage:   "Lowest supported multipath-tools version",
			Sources: env("MIN_VERSION"),
			Value:   defaults.MinMultipathVersion,
		},
		&cli.StringFlag{
			Name:    "max-version",
			Usage:   "Highest supported multipath-tools version",
			Sources: env("MAX_VERSION"),
			Value:   defaults.MaxMultipathVersion,
		},
		&cli.StringFlag{
			Name:    "multipath-bin",
			Usage:   "Path to the multipath binary",
			Sources: env("MULTIPATH_BIN"),
			Value:   defaults.MultipathBinary,
		},
		&cli.StringFlag{
			Name:    "multipathd-bin",
			Usage:   "Path to the multipathd binary",
			Sources: env("MULTIPATHD_BIN"),
			Value:   defaults.MultipathdBinary,
		},
		&cli.StringFlag{
			Name:    "systemd-unit",
			Usage:   "systemd unit whose state is exported (empty to disable)",
			Sources: env("SYSTEMD_UNIT"),
			Value:   defaults.SystemdUnit,
		},
		&cli.StringFlag{
			Name:    "metrics-path",
			Usage:   "HTTP path serving the metrics",
			Sources: env("METRICS_PATH"),
			Value:   defaults.MetricsPath,
		},
	}
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "Output file path (default: stdout)",
}

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"t"},
	Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	Value:   string(serializer.FormatText),
}

// buildConfig starts from the defaults, overlays the --config file and then
// every flag or environment variable that was set explicitly.
func buildConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(cfg, path); err != nil {
			return cfg, err
		}
	}

	strs := map[string]*string{
		"log-level":      &cfg.LogLevel,
		"listen-address": &cfg.ListenAddress,
		"min-version":    &cfg.MinVersion,
		"max-version":    &cfg.MaxVersion,
		"multipath-bin":  &cfg.MultipathBinary,
		"multipathd-bin": &cfg.MultipathdBinary,
		"metrics-path":   &cfg.MetricsPath,
		"systemd-unit":   &cfg.SystemdUnit,
	}
	for name, dst := range strs {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}

	if cmd.IsSet("listen-port") {
		cfg.ListenPort = int(cmd.Int("listen-port"))
	}

	if cmd.IsSet("cmd-timeout") {
		d, err := flagDuration(cmd, "cmd-timeout")
		if err != nil {
			return cfg, err
		}
		cfg.CommandTimeout = d
	}
	if cmd.IsSet("collect-interval") {
		d, err := flagDuration(cmd, "collect-interval")
		if err != nil {
			return cfg, err
		}
		cfg.CollectInterval = d
	}

	return cfg, cfg.Validate()
}

func flagDuration(cmd *cli.Command, name string) (time.Duration, error) {
	d, err := config.ParseDuration(cmd.String(name))
	if err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid duration flag", err,
			map[string]any{"flag": name})
	}
	return d, nil
}

// parseOutputFormat reads --format.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format: %q", cmd.String("format")),
			map[string]any{"supported": serializer.SupportedFormats()})
	}
	return f, nil
}
