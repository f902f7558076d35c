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

package snapshotter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle status label values.
const (
	statusSuccess     = "success"
	statusFailed      = "failed"
	statusPanic       = "panic"
	statusInterrupted = "interrupted"
)

var (
	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "multipath_exporter_cycle_duration_seconds",
			Help:    "Time taken by one refresh cycle",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	cycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multipath_exporter_cycle_total",
			Help: "Total number of refresh cycles",
		},
		[]string{"status"}, // success, failed, panic or interrupted
	)

	lastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "multipath_exporter_last_success_timestamp_seconds",
			Help: "Unix time of the last refresh cycle that read multipathd successfully",
		},
	)

	snapshotSamples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "multipath_exporter_snapshot_samples",
			Help: "Number of samples in the published snapshot",
		},
	)
)
