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

// Package config holds the exporter's immutable runtime configuration.
//
// A Config is built once at startup: Default, then an optional YAML file
// (LoadFile), then explicitly set flags and environment variables applied by
// the CLI. It is validated once with Validate and passed by value to every
// component.
//
// Example file:
//
//	listenAddress: 127.0.0.1
//	listenPort: 9684
//	cmdTimeout: 2s
//	collectInterval: 60s
//	minVersion: 0.4.6
//	maxVersion: 0.7.9
//	multipathBinary: /usr/sbin/multipath
//	multipathdBinary: /usr/sbin/multipathd
//	metricsPath: /metrics
//	logLevel: info
//
// Durations accept Go duration strings ("1m30s") or bare numbers of
// seconds ("2.5").
package config
