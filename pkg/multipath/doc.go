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

// Package multipath reads device-mapper multipath state from multipathd and
// turns it into metric snapshots.
//
// Client.Fetch runs "multipathd show maps json" through a runner.Executor
// and decodes the answer into Maps. It never returns an error: any failure
// is logged and reported as absent data, so the caller keeps serving.
//
// BuildSnapshot converts Maps into a measurement.Snapshot:
//
//	multipathd_lun_paths{uuid="36000...",dm_st="active"} 4
//	multipathd_maps 1
//	multipathd_json_info{major="0",minor="1"} 1
//
// Entries missing uuid, dm_st or paths are skipped with a warning. An empty
// map list still produces the multipathd_lun_paths descriptor, with no
// samples.
package multipath
