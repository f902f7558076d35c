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

// Package serializer writes exporter data as JSON, YAML, a table or
// plain text.
//
// Writers are used by the one-shot collect command to print a snapshot:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, snap); err != nil {
//		return err
//	}
//
// Values implementing Tabular control their own table layout. Anything else
// is flattened into dotted FIELD/VALUE rows. FormatText hands the output to
// values implementing TextWriter, such as the Prometheus exposition of a
// registry.
//
// RespondJSON is the HTTP helper shared by the server's JSON endpoints.
package serializer
