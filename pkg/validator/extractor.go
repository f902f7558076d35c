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
	"fmt"
	"regexp"
	"strings"

	"github.com/NVIDIA/multipath-exporter/pkg/errors"
)

// versionLinePattern matches "<program> v<token>" at the start of a line
// and captures the token.
func versionLinePattern(program string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(program) + ` v(\S*)`)
}

// ExtractVersion returns the version token of the first line in help that
// starts with "<program> v". The leading "v" is not part of the result.
func ExtractVersion(help, program string) (string, error) {
	if program == "" {
		return "", errors.New(errors.ErrCodeInvalidRequest, "program name cannot be empty")
	}

	m := versionLinePattern(program).FindStringSubmatch(help)
	if m == nil {
		return "", errors.NewWithContext(errors.ErrCodeParse, ReasonVersionNotFound,
			map[string]any{"program": program})
	}

	return strings.TrimSpace(m[1]), nil
}

// firstLines keeps debug logs of help output short.
func firstLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = append(lines[:n], fmt.Sprintf("... (%d bytes)", len(s)))
	}
	return strings.Join(lines, "\n")
}
