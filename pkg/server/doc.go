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

// Package server is the exporter's HTTP surface.
//
// # Routes
//
//   - GET /health: liveness, always 200 while the process runs
//   - GET /ready: 200 while the server is serving, 503 before Start and
//     after Shutdown
//   - GET /: name, version and route list as JSON
//   - any handler passed with WithHandler, normally the metrics endpoint
//
// Handlers passed with WithHandler run behind the middleware chain:
// request metrics, request ID (X-Request-Id, generated with google/uuid
// when absent or malformed), panic recovery, token bucket rate limiting
// (golang.org/x/time/rate, 429 with Retry-After) and debug request logging.
// /health and /ready are not rate limited.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("multipath-exporter"),
//	    server.WithVersion(version),
//	    server.WithAddress("", 9684),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/metrics": promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP,
//	    }),
//	)
//	if err := s.Listen(); err != nil {
//	    return err // ErrCodeUnavailable
//	}
//	return s.Start(ctx)
//
// Listen binds synchronously so a port conflict is reported before the
// caller commits to serving. Start blocks until ctx is cancelled and then
// shuts down within Config.ShutdownTimeout.
//
// # Errors
//
// Error replies are ErrorResponse JSON documents:
//
//	{
//	  "code": "RATE_LIMIT_EXCEEDED",
//	  "message": "Rate limit exceeded",
//	  "details": {"limit": 10, "burst": 20},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-01-15T10:30:00Z",
//	  "retryable": true
//	}
package server
