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

package serializer

import (
	"context"
	"io"
)

// Serializer writes a value in some output format.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is implemented by Serializers that hold a file handle.
type Closer interface {
	Close() error
}

// Tabular is implemented by values that know how to render themselves as
// rows for FormatTable. Other values are flattened field by field.
type Tabular interface {
	Table() (header []string, rows [][]string)
}

// TextWriter is implemented by values with their own text encoding for
// FormatText. Other values are printed with fmt.
type TextWriter interface {
	WriteText(w io.Writer) error
}
