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

// Package snapshotter runs the exporter's refresh loop.
//
// A Snapshotter moves through four states:
//
//	starting -> validating -> serving -> terminated
//
// Run validates the host once, publishes an initial snapshot, binds the
// HTTP listener and then refreshes the snapshot every collect interval.
// Each cycle loads `multipathd show maps json`, converts it with
// multipath.BuildSnapshotAt and publishes the result to a registry.Registry
// in one atomic swap, so a scrape never sees a partially built snapshot.
//
// Cycles are sequential. A failing or panicking cycle is logged and counted
// and the loop carries on; only an ineligible host, a bind failure or a
// cancelled context stop Run.
//
// # Usage
//
//	cfg := config.Default()
//	s, err := snapshotter.New(cfg, snapshotter.WithVersion(version))
//	if err != nil {
//	    return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	err = s.Run(ctx) // ErrCodeInterrupted after SIGINT/SIGTERM
//
// # Time
//
// The interval is measured on a k8s.io/utils/clock Clock. Tests pass a
// fake clock through WithClock and step it to trigger cycles.
//
// # Service manager
//
// Under systemd, READY=1 is sent once the server is listening and
// WATCHDOG=1 after every cycle and periodically while the loop is alive.
// Outside systemd the notifications are no-ops.
//
// # Metrics
//
//   - multipath_exporter_cycle_duration_seconds: cycle latency histogram
//   - multipath_exporter_cycle_total{status}: cycles by outcome
//   - multipath_exporter_last_success_timestamp_seconds: last good read
//   - multipath_exporter_snapshot_samples: samples currently published
package snapshotter
