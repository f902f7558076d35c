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

package validator

import (
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
)

// Reasons for a negative Eligibility that do not embed runtime details.
const (
	ReasonVersionNotFound = "version string not found"
)

// Eligibility is the immutable outcome of host validation.
type Eligibility struct {
	// Eligible is true when every check passed.
	Eligible bool `json:"eligible"`

	// Reason describes the failed check, or the accepted version when eligible.
	Reason string `json:"reason"`

	// Version is the multipath-tools version found on the host, if any.
	Version string `json:"version,omitempty"`
}

// Err returns nil for an eligible host, otherwise a StructuredError coded
// ErrCodeValidation carrying the reason.
func (e Eligibility) Err() error {
	if e.Eligible {
		return nil
	}
	return errors.NewWithContext(errors.ErrCodeValidation, e.Reason, map[string]any{
		"version": e.Version,
	})
}

func eligible(version, reason string) Eligibility {
	return Eligibility{Eligible: true, Reason: reason, Version: version}
}

func ineligible(version, reason string) Eligibility {
	return Eligibility{Eligible: false, Reason: reason, Version: version}
}
