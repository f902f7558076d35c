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

// Package registry publishes the current metric snapshot to Prometheus.
//
// The control loop builds each measurement.Snapshot off to the side and hands
// it to Replace, which swaps it in with a single atomic store. Scrapes go
// through Collect, which loads the pointer once, so a scrape always sees one
// whole snapshot: the previous one until the new one is published, never a
// mix of both.
//
// Registry is an unchecked prometheus.Collector because the metric set is
// only known once multipathd has answered:
//
//	reg := registry.New()
//	reg.Replace(snap)
//	handler := promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{})
package registry
