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

// Package version parses multipath-tools release versions and checks them
// against an inclusive supported range using semantic-version ordering.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion   = errors.New("version string is empty")
	ErrInvalidVersion = errors.New("version is not a valid semantic version")
	ErrInvertedRange  = errors.New("range minimum is greater than maximum")
)

// Version is a semantic version (major.minor.patch with optional
// pre-release and build metadata).
type Version struct {
	semver.Version
}

// NewVersion creates a Version from its numeric components.
func NewVersion(major, minor, patch uint64) Version {
	return Version{semver.Version{Major: major, Minor: minor, Patch: patch}}
}

// ParseVersion parses a version string. A leading "v" and surrounding
// whitespace are stripped; "0.7" is read as "0.7.0".
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	sv, err := semver.ParseTolerant(s)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
	}
	return Version{sv}, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// Compare returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	return v.Version.Compare(other.Version)
}

// Range is an inclusive version interval.
type Range struct {
	Min Version
	Max Version
}

// NewRange parses both bounds and rejects a range whose minimum is above
// its maximum.
func NewRange(minVersion, maxVersion string) (Range, error) {
	lo, err := ParseVersion(minVersion)
	if err != nil {
		return Range{}, fmt.Errorf("invalid minimum version: %w", err)
	}
	hi, err := ParseVersion(maxVersion)
	if err != nil {
		return Range{}, fmt.Errorf("invalid maximum version: %w", err)
	}
	if lo.Compare(hi) > 0 {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvertedRange, lo, hi)
	}
	return Range{Min: lo, Max: hi}, nil
}

// Contains reports whether Min <= v <= Max.
func (r Range) Contains(v Version) bool {
	return v.Compare(r.Min) >= 0 && v.Compare(r.Max) <= 0
}

// String returns the range in interval notation, e.g. "[0.4.6, 0.7.9]".
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}
