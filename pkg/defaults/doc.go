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

// Package defaults provides centralized configuration constants for the exporter.
//
// This package defines timeout values, intervals, ports and the supported
// multipath-tools version range used when no explicit configuration is given.
// Centralizing these values keeps the CLI flags, the config file loader and
// the tests in agreement.
//
// # Categories
//
//   - Command timeouts: bounds for every external process invocation
//   - Collection: refresh interval and snapshot settings
//   - Server timeouts: for HTTP server configuration
//   - Multipath: binaries, listen port, supported version range
package defaults
