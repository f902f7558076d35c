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

package multipath

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/NVIDIA/multipath-exporter/pkg/measurement"
)

// Metric names and help texts.
const (
	LUNPathsMetric = "multipathd_lun_paths"
	LUNPathsHelp   = "Number of paths for a LUN"

	MapsMetric = "multipathd_maps"
	MapsHelp   = "Number of multipath devices reported by multipathd"

	JSONInfoMetric = "multipathd_json_info"
	JSONInfoHelp   = "JSON format version reported by multipathd"
)

// Label names of LUNPathsMetric.
const (
	LabelUUID    = "uuid"
	LabelDMState = "dm_st"
)

// BuildSnapshot converts the decoded map state into a snapshot. It is
// BuildSnapshotAt with a zero creation time.
func BuildSnapshot(data *Maps) *measurement.Snapshot {
	return BuildSnapshotAt(data, time.Time{})
}

// BuildSnapshotAt converts the decoded map state into a snapshot created at
// the given time. A nil data yields the path descriptor with no samples.
// Extra descriptors are appended after the multipath ones.
func BuildSnapshotAt(data *Maps, at time.Time, extra ...*measurement.DescriptorBuilder) *measurement.Snapshot {
	sb := measurement.NewSnapshotBuilder().At(at)
	sb.WithDescriptorBuilder(lunPaths(data))

	if data != nil {
		sb.WithDescriptorBuilder(
			measurement.NewDescriptorBuilder(MapsMetric, MapsHelp).
				Add(float64(len(data.Maps))))

		if data.MajorVersion != nil && data.MinorVersion != nil {
			sb.WithDescriptorBuilder(
				measurement.NewDescriptorBuilder(JSONInfoMetric, JSONInfoHelp, "major", "minor").
					Add(1, strconv.Itoa(*data.MajorVersion), strconv.Itoa(*data.MinorVersion)))
		}
	}

	for _, b := range extra {
		if b != nil {
			sb.WithDescriptorBuilder(b)
		}
	}
	return sb.Build()
}

func lunPaths(data *Maps) *measurement.DescriptorBuilder {
	b := measurement.NewDescriptorBuilder(LUNPathsMetric, LUNPathsHelp, LabelUUID, LabelDMState)

	if data == nil || len(data.Maps) == 0 {
		slog.Warn("no LUNs found")
		return b
	}

	for _, m := range data.Maps {
		if missing := missingField(m); missing != "" {
			slog.Warn("skipping multipath map with missing field",
				"map", m.DisplayName(),
				"field", missing)
			continue
		}
		b.Add(float64(*m.Paths), *m.UUID, *m.DMState)
	}
	return b
}

func missingField(m Map) string {
	switch {
	case m.UUID == nil:
		return LabelUUID
	case m.DMState == nil:
		return LabelDMState
	case m.Paths == nil:
		return "paths"
	}
	return ""
}
