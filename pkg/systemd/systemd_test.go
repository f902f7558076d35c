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

package systemd

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/multipath-exporter/pkg/errors"
)

func reader(props map[string]any, err error) PropertyReader {
	return func(context.Context, string) (map[string]any, error) {
		return props, err
	}
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		want    map[string]float64
		samples int
	}{
		{
			name:    "active",
			state:   "active",
			want:    map[string]float64{"active": 1, "failed": 0, "inactive": 0},
			samples: len(activeStates),
		},
		{
			name:    "failed",
			state:   "failed",
			want:    map[string]float64{"active": 0, "failed": 1},
			samples: len(activeStates),
		},
		{
			name:    "undocumented state is added",
			state:   "maintenance",
			want:    map[string]float64{"active": 0, "maintenance": 1},
			samples: len(activeStates) + 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("multipathd.service", WithPropertyReader(reader(map[string]any{
				"ActiveState": tt.state,
				"SubState":    "running",
			}, nil)))

			b, err := c.Collect(context.Background())
			require.NoError(t, err)
			d := b.Build()

			assert.Equal(t, UnitStateMetric, d.Name)
			assert.Equal(t, []string{LabelUnit, LabelState}, d.LabelNames)
			require.Len(t, d.Samples, tt.samples)

			got := make(map[string]float64)
			for _, s := range d.Samples {
				assert.Equal(t, "multipathd.service", s.LabelValues[0])
				got[s.LabelValues[1]] = s.Value
			}
			for state, v := range tt.want {
				assert.Equal(t, v, got[state], state)
			}
		})
	}
}

func TestCollectErrors(t *testing.T) {
	t.Run("dbus failure", func(t *testing.T) {
		cause := stderrors.New("no such file or directory")
		c := New("multipathd.service", WithPropertyReader(reader(nil, cause)))

		_, err := c.Collect(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("missing state", func(t *testing.T) {
		c := New("multipathd.service", WithPropertyReader(reader(map[string]any{"SubState": "dead"}, nil)))

		_, err := c.Collect(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeParse))
	})
}

func TestUnit(t *testing.T) {
	assert.Equal(t, "multipathd.socket", New("multipathd.socket").Unit())
}
