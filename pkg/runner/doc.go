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

// Package runner executes external commands with a hard wall-clock bound.
//
// Commands are started from an argument vector, never through a shell. Each
// child is placed in its own process group; when the bound expires, or the
// caller context is cancelled, the whole group is killed and Run reports
// that no usable output exists. Output captured before the kill is dropped.
//
// Usage:
//
//	r := runner.New()
//	out, err := r.Run(ctx, runner.Command{
//	    Name:    "multipathd",
//	    Args:    []string{"show", "maps", "json"},
//	    Timeout: 2 * time.Second,
//	})
//	if errors.IsCode(err, errors.ErrCodeTimeout) {
//	    // killed, out is nil
//	}
//
// Run is safe for concurrent use; all concurrency used to enforce the bound
// is contained within a single call.
package runner
