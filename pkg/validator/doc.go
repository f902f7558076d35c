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

// Package validator decides whether the local host is eligible to run the
// exporter.
//
// Eligibility is computed once per process from two checks, in order:
//
//  1. Privilege: the process must run with effective uid 0, because
//     multipathd only answers its control socket for root.
//  2. Version: the "multipath-tools v<semver>" line printed by
//     "multipath --help" must name a release inside the supported range.
//
// Every failure, including a command timeout or unparseable output, is
// turned into a negative Eligibility with a diagnostic reason; Validate
// never returns an error or panics.
//
// Usage:
//
//	v := validator.New(
//	    validator.WithVersionRange(r),
//	    validator.WithTimeout(2*time.Second),
//	)
//	e := v.Validate(ctx)
//	if !e.Eligible {
//	    return e.Err()
//	}
package validator
