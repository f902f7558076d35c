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

// Package cli implements the multipath-exporter command line.
//
// # Commands
//
// Without a subcommand the exporter runs as a service:
//
//	multipath-exporter --listen-port 9684 --collect-interval 60s
//
// It validates the host, publishes a snapshot of multipathd's map state
// every collect interval and serves it until SIGINT or SIGTERM.
//
// collect - Run one refresh cycle and print the result:
//
//	multipath-exporter collect --format table
//
// # Configuration
//
// Values are resolved in this order, later wins:
//
//  1. built-in defaults
//  2. the YAML file given with --config
//  3. environment variables
//  4. command line flags
//
// Durations accept Go syntax (2s, 1m) or a bare number of seconds (2.0).
//
// # Environment Variables
//
//	LOG_LEVEL                              Log level (debug, info, warn, error)
//	MULTIPATH_EXPORTER_CONFIG              Configuration file
//	MULTIPATH_EXPORTER_ADDRESS             Listen address
//	MULTIPATH_EXPORTER_PORT                Listen port
//	MULTIPATH_EXPORTER_CMD_TIMEOUT         External command time limit
//	MULTIPATH_EXPORTER_COLLECT_INTERVAL    Delay between refresh cycles
//	MULTIPATH_EXPORTER_MIN_VERSION         Lowest supported multipath-tools version
//	MULTIPATH_EXPORTER_MAX_VERSION         Highest supported multipath-tools version
//	MULTIPATH_EXPORTER_MULTIPATH_BIN       multipath binary
//	MULTIPATH_EXPORTER_MULTIPATHD_BIN      multipathd binary
//	MULTIPATH_EXPORTER_METRICS_PATH        Metrics endpoint path
//
// # Exit Codes
//
//	0  Success, help or version
//	1  Any failure, including an interrupt
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/multipath-exporter/pkg/cli.version=1.0.0'"
package cli
