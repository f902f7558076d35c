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

// Package measurement defines the immutable metric snapshot published by the
// exporter on every refresh cycle.
//
// # Core Types
//
//   - Snapshot: every Descriptor valid for one cycle
//   - Descriptor: a named metric with help text, type, ordered label names
//     and its samples
//   - Sample: one label-value tuple and its numeric value
//
// A Snapshot is built off to the side with the fluent builders and never
// modified after Build; consumers replace snapshots, they do not edit them.
//
// # Building Snapshots
//
//	luns := measurement.NewDescriptorBuilder(
//	    "multipathd_lun_paths", "Number of paths for a LUN", "uuid", "dm_st")
//	luns.Add(4, "36000...", "active")
//	luns.Add(1, "36001...", "failed")
//
//	snap := measurement.NewSnapshotBuilder().
//	    WithDescriptorBuilder(luns).
//	    Build()
//
// # Sample Identity
//
// Within one Descriptor the label-value tuples are pairwise distinct. The
// builder drops a sample whose tuple repeats an earlier one, or whose arity
// does not match the label names, and logs a warning instead of failing.
//
// # Comparing Snapshots
//
// Compare reports samples that appeared, disappeared or changed value
// between two snapshots:
//
//	for _, c := range measurement.Compare(prev, next) {
//	    slog.Info("sample changed", "metric", c.Metric, "kind", c.Kind)
//	}
package measurement
