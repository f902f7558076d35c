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
	"sort"
)

// ChangeKind tells how a sample differs between two snapshots.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "updated"
)

// Change describes one sample that differs between two snapshots.
type Change struct {
	Kind        ChangeKind
	Metric      string
	LabelNames  []string
	LabelValues []string
	Old         float64
	New         float64
}

// Compare returns the samples of next that are new or have a different
// value than in prev, and the samples of prev missing from next. Changes
// are ordered by metric name, then kind, then label values.
func Compare(prev, next *Snapshot) []Change {
	if prev == nil {
		prev = Empty()
	}
	if next == nil {
		next = Empty()
	}

	var changes []Change

	names := make(map[string]struct{})
	for _, d := range prev.Descriptors {
		names[d.Name] = struct{}{}
	}
	for _, d := range next.Descriptors {
		names[d.Name] = struct{}{}
	}

	for name := range names {
		p, _ := prev.Descriptor(name)
		n, _ := next.Descriptor(name)
		labels := n.LabelNames
		if labels == nil {
			labels = p.LabelNames
		}

		old := make(map[string]Sample, len(p.Samples))
		for _, s := range p.Samples {
			old[s.Key()] = s
		}

		for _, s := range n.Samples {
			o, exists := old[s.Key()]
			delete(old, s.Key())
			switch {
			case !exists:
				changes = append(changes, Change{Kind: ChangeAdded, Metric: name,
					LabelNames: labels, LabelValues: s.LabelValues, New: s.Value})
			case o.Value != s.Value:
				changes = append(changes, Change{Kind: ChangeUpdated, Metric: name,
					LabelNames: labels, LabelValues: s.LabelValues, Old: o.Value, New: s.Value})
			}
		}

		for _, s := range old {
			changes = append(changes, Change{Kind: ChangeRemoved, Metric: name,
				LabelNames: labels, LabelValues: s.LabelValues, Old: s.Value})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return Sample{LabelValues: a.LabelValues}.Key() < Sample{LabelValues: b.LabelValues}.Key()
	})

	return changes
}
