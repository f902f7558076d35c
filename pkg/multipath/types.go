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

// Maps is the decoded answer of "multipathd show maps json".
type Maps struct {
	MajorVersion *int  `json:"major_version,omitempty"`
	MinorVersion *int  `json:"minor_version,omitempty"`
	Maps         []Map `json:"maps"`
}

// Map is one multipath device. Fields are pointers so a field that
// multipathd left out can be told apart from its zero value.
type Map struct {
	Name       *string     `json:"name,omitempty"`
	UUID       *string     `json:"uuid,omitempty"`
	Sysfs      *string     `json:"sysfs,omitempty"`
	Failback   *string     `json:"failback,omitempty"`
	Queueing   *string     `json:"queueing,omitempty"`
	Paths      *int        `json:"paths,omitempty"`
	WriteProt  *string     `json:"write_prot,omitempty"`
	DMState    *string     `json:"dm_st,omitempty"`
	Features   *string     `json:"features,omitempty"`
	HWHandler  *string     `json:"hwhandler,omitempty"`
	PathFaults *int        `json:"path_faults,omitempty"`
	Vendor     *string     `json:"vend,omitempty"`
	Product    *string     `json:"prod,omitempty"`
	Revision   *string     `json:"rev,omitempty"`
	PathGroups []PathGroup `json:"path_groups,omitempty"`
}

// PathGroup is a priority group of paths within a Map.
type PathGroup struct {
	Selector *string `json:"selector,omitempty"`
	Priority *int    `json:"pri,omitempty"`
	DMState  *string `json:"dm_st,omitempty"`
	Group    *int    `json:"group,omitempty"`
	Paths    []Path  `json:"paths,omitempty"`
}

// Path is a single block device path.
type Path struct {
	Dev      *string `json:"dev,omitempty"`
	DevT     *string `json:"dev_t,omitempty"`
	DMState  *string `json:"dm_st,omitempty"`
	DevState *string `json:"dev_st,omitempty"`
	ChkState *string `json:"chk_st,omitempty"`
}

// DisplayName returns the map name, or "<unnamed>" when multipathd did not
// report one.
func (m Map) DisplayName() string {
	if m.Name == nil || *m.Name == "" {
		return "<unnamed>"
	}
	return *m.Name
}
