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

package registry

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/NVIDIA/multipath-exporter/pkg/measurement"
)

// Registry holds the published snapshot.
type Registry struct {
	current  atomic.Pointer[measurement.Snapshot]
	reg      *prometheus.Registry
	extra    prometheus.Gatherer
	replaced atomic.Uint64
}

// Option is a functional option for configuring Registry instances.
type Option func(*Registry)

// WithSelfMetrics adds a gatherer, normally prometheus.DefaultGatherer,
// whose metrics are served next to the snapshot.
func WithSelfMetrics(g prometheus.Gatherer) Option {
	return func(r *Registry) {
		r.extra = g
	}
}

// New creates a Registry serving an empty snapshot.
func New(opts ...Option) *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(measurement.Empty())
	r.reg.MustRegister(r)
	return r
}

// Replace publishes snap. A nil snap publishes an empty snapshot.
func (r *Registry) Replace(snap *measurement.Snapshot) {
	if snap == nil {
		snap = measurement.Empty()
	}
	r.current.Store(snap)
	r.replaced.Add(1)
}

// Current returns the published snapshot. It never returns nil.
func (r *Registry) Current() *measurement.Snapshot {
	return r.current.Load()
}

// Publications returns how many times Replace has been called.
func (r *Registry) Publications() uint64 {
	return r.replaced.Load()
}

// Describe sends nothing, which makes Registry an unchecked collector.
func (r *Registry) Describe(chan<- *prometheus.Desc) {}

// Collect emits every sample of the current snapshot as a constant metric.
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	snap := r.current.Load()
	for _, d := range snap.Descriptors {
		desc := prometheus.NewDesc(d.Name, d.Help, d.LabelNames, nil)
		vt := valueType(d.Type)
		for _, s := range d.Samples {
			m, err := prometheus.NewConstMetric(desc, vt, s.Value, s.LabelValues...)
			if err != nil {
				slog.Warn("cannot export sample",
					"metric", d.Name,
					"labels", s.LabelValues,
					"error", err)
				continue
			}
			ch <- m
		}
	}
}

func valueType(t measurement.MetricType) prometheus.ValueType {
	if t == measurement.TypeCounter {
		return prometheus.CounterValue
	}
	return prometheus.GaugeValue
}

// Gatherer returns the gatherer for the metrics endpoint: the snapshot plus
// any self-metrics gatherer configured with WithSelfMetrics.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r.extra == nil {
		return r.reg
	}
	return prometheus.Gatherers{r.reg, r.extra}
}

// WriteText writes the current snapshot, without self-metrics, in the
// Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather snapshot: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

var _ prometheus.Collector = (*Registry)(nil)
