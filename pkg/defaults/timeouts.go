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

package defaults

import "time"

// Command timeouts for external process invocations.
const (
	// CommandTimeout is the default wall-clock bound for every external command.
	CommandTimeout = 2 * time.Second

	// CommandWaitDelay bounds how long a killed command may hold its output
	// pipes open before Run returns.
	CommandWaitDelay = 500 * time.Millisecond
)

// Collection intervals.
const (
	// CollectInterval is the default delay between refresh cycles.
	CollectInterval = 60 * time.Second

	// MinCollectInterval is the shortest accepted refresh interval.
	MinCollectInterval = 100 * time.Millisecond
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 10 * time.Second
)

// Multipath defaults.
const (
	// ListenPort is the default TCP port for the metrics endpoint.
	ListenPort = 9684

	// MetricsPath is the default path of the metrics endpoint.
	MetricsPath = "/metrics"

	// MultipathBinary is the multipath CLI used for the version check.
	MultipathBinary = "multipath"

	// MultipathdBinary is the daemon CLI used to dump the current maps.
	MultipathdBinary = "multipathd"

	// SystemdUnit is the unit whose active state is exported.
	SystemdUnit = "multipathd.service"

	// MultipathProgram is the program name printed on the version line of
	// "multipath --help".
	MultipathProgram = "multipath-tools"

	// MinMultipathVersion is the oldest supported multipath-tools release.
	MinMultipathVersion = "0.4.6"

	// MaxMultipathVersion is the newest supported multipath-tools release.
	MaxMultipathVersion = "0.7.9"
)
