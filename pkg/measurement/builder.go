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

package measurement

import (
	"log/slog"
	"time"
)

// DescriptorBuilder provides a fluent API for building Descriptor instances.
type DescriptorBuilder struct {
	name       string
	help       string
	metricType MetricType
	labelNames []string
	samples    []Sample
	seen       map[string]struct{}
	skipped    int
}

// NewDescriptorBuilder creates a gauge DescriptorBuilder with the given
// name, help text and ordered label names.
func NewDescriptorBuilder(name, help string, labelNames ...string) *DescriptorBuilder {
	return &DescriptorBuilder{
		name:       name,
		help:       help,
		metricType: TypeGauge,
		labelNames: append([]string(nil), labelNames...),
		samples:    make([]Sample, 0),
		seen:       make(map[string]struct{}),
	}
}

// WithType sets the metric type.
func (b *DescriptorBuilder) WithType(t MetricType) *DescriptorBuilder {
	b.metricType = t
	return b
}

// Add appends a sample. A sample with the wrong number of label values, or
// with a label tuple already added, is skipped with a warning.
func (b *DescriptorBuilder) Add(value float64, labelValues ...string) *DescriptorBuilder {
	if len(labelValues) != len(b.labelNames) {
		b.skipped++
		slog.Warn("cannot set metric, label arity mismatch",
			"metric", b.name,
			"labels", b.labelNames,
			"values", labelValues)
		return b
	}

	s := Sample{
		LabelValues: append([]string(nil), labelValues...),
		Value:       value,
	}
	key := s.Key()
	if _, dup := b.seen[key]; dup {
		b.skipped++
		slog.Warn("cannot set metric, duplicate label values",
			"metric", b.name,
			"labels", b.labelNames,
			"values", labelValues)
		return b
	}
	b.seen[key] = struct{}{}
	b.samples = append(b.samples, s)
	return b
}

// Skipped returns how many samples were rejected by Add.
func (b *DescriptorBuilder) Skipped() int {
	return b.skipped
}

// Build constructs and returns the Descriptor.
func (b *DescriptorBuilder) Build() Descriptor {
	samples := make([]Sample, len(b.samples))
	copy(samples, b.samples)
	return Descriptor{
		Name:       b.name,
		Help:       b.help,
		Type:       b.metricType,
		LabelNames: append([]string(nil), b.labelNames...),
		Samples:    samples,
	}
}

// SnapshotBuilder provides a fluent API for building Snapshot instances.
type SnapshotBuilder struct {
	createdAt   time.Time
	descriptors []Descriptor
}

// NewSnapshotBuilder creates an empty SnapshotBuilder.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{
		descriptors: make([]Descriptor, 0),
	}
}

// At sets the snapshot creation time.
func (b *SnapshotBuilder) At(t time.Time) *SnapshotBuilder {
	b.createdAt = t
	return b
}

// WithDescriptor adds a descriptor to the snapshot.
func (b *SnapshotBuilder) WithDescriptor(d Descriptor) *SnapshotBuilder {
	b.descriptors = append(b.descriptors, d)
	return b
}

// WithDescriptorBuilder adds a descriptor using a DescriptorBuilder.
func (b *SnapshotBuilder) WithDescriptorBuilder(builder *DescriptorBuilder) *SnapshotBuilder {
	b.descriptors = append(b.descriptors, builder.Build())
	return b
}

// Build constructs and returns the Snapshot.
func (b *SnapshotBuilder) Build() *Snapshot {
	descs := make([]Descriptor, len(b.descriptors))
	copy(descs, b.descriptors)
	return &Snapshot{
		CreatedAt:   b.createdAt,
		Descriptors: descs,
	}
}
