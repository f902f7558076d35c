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

package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonTimeout   = "timeout"
	reasonExec      = "exec"
	reasonCancelled = "cancelled"
)

var (
	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "multipath_exporter_command_duration_seconds",
			Help:    "Wall-clock time of external command invocations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"command"},
	)

	commandFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multipath_exporter_command_failures_total",
			Help: "Total number of external command invocations without usable output",
		},
		[]string{"command", "reason"}, // timeout, exec or cancelled
	)
)
