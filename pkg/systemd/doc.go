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

// Package systemd exports the active state of a systemd unit, normally
// multipathd.service, as a snapshot descriptor.
//
// The state is read over D-Bus on every call:
//
//	c := systemd.New("multipathd.service")
//	b, err := c.Collect(ctx)
//
// The descriptor has one sample per known ActiveState, set to 1 for the
// current state and 0 otherwise:
//
//	multipathd_unit_state{unit="multipathd.service",state="active"} 1
//	multipathd_unit_state{unit="multipathd.service",state="failed"} 0
package systemd
