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
	"strconv"
	"strings"
	"time"
)

// MetricType is the kind of metric a Descriptor exposes.
type MetricType string

// String returns the string representation of the MetricType.
func (mt MetricType) String() string {
	return string(mt)
}

const (
	TypeGauge   MetricType = "gauge"
	TypeCounter MetricType = "counter"
)

// labelSep cannot appear in valid UTF-8 label values.
const labelSep = "\xff"

// Sample pairs a label-value tuple with a value.
type Sample struct {
	LabelValues []string `json:"labelValues" yaml:"labelValues"`
	Value       float64  `json:"value" yaml:"value"`
}

// Key returns a string identifying the label-value tuple.
func (s Sample) Key() string {
	return strings.Join(s.LabelValues, labelSep)
}

// Descriptor is a named metric and its samples.
type Descriptor struct {
	Name       string     `json:"name" yaml:"name"`
	Help       string     `json:"help" yaml:"help"`
	Type       MetricType `json:"type" yaml:"type"`
	LabelNames []string   `json:"labelNames,omitempty" yaml:"labelNames,omitempty"`
	Samples    []Sample   `json:"samples" yaml:"samples"`
}

// Snapshot is the complete metric set of one refresh cycle.
type Snapshot struct {
	// Cycle is the sequence number of the refresh cycle that built it.
	Cycle uint64 `json:"cycle" yaml:"cycle"`

	// CreatedAt is when the snapshot was built.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`

	Descriptors []Descriptor `json:"descriptors" yaml:"descriptors"`
}

// Empty returns a snapshot with no descriptors.
func Empty() *Snapshot {
	return &Snapshot{Descriptors: []Descriptor{}}
}

// Descriptor returns the descriptor with the given name.
func (s *Snapshot) Descriptor(name string) (Descriptor, bool) {
	if s == nil {
		return Descriptor{}, false
	}
	for _, d := range s.Descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// SampleCount returns the number of samples across all descriptors.
func (s *Snapshot) SampleCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, d := range s.Descriptors {
		n += len(d.Samples)
	}
	return n
}

// Stamp returns a shallow copy of s carrying the given cycle number and
// creation time. Descriptors are shared with s; neither may be modified.
func (s *Snapshot) Stamp(cycle uint64, at time.Time) *Snapshot {
	if s == nil {
		s = Empty()
	}
	c := *s
	c.Cycle = cycle
	c.CreatedAt = at
	return &c
}

// Table renders one row per sample for table output.
func (s *Snapshot) Table() ([]string, [][]string) {
	header := []string{"METRIC", "LABELS", "VALUE"}
	if s == nil {
		return header, nil
	}
	var rows [][]string
	for _, d := range s.Descriptors {
		for _, smp := range d.Samples {
			pairs := make([]string, len(smp.LabelValues))
			for i, v := range smp.LabelValues {
				pairs[i] = d.LabelNames[i] + "=" + strconv.Quote(v)
			}
			rows = append(rows, []string{
				d.Name,
				strings.Join(pairs, ","),
				strconv.FormatFloat(smp.Value, 'g', -1, 64),
			})
		}
	}
	return header, rows
}
