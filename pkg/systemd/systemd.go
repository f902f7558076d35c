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
	"fmt"
	"log/slog"
	"slices"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/measurement"
)

// Metric name, help text and labels of the unit state descriptor.
const (
	UnitStateMetric = "multipathd_unit_state"
	UnitStateHelp   = "Whether the systemd unit is in the given active state"

	LabelUnit  = "unit"
	LabelState = "state"
)

// activeStates are the ActiveState values systemd documents.
var activeStates = []string{
	"activating",
	"active",
	"deactivating",
	"failed",
	"inactive",
	"reloading",
}

// PropertyReader returns the properties of a unit.
type PropertyReader func(ctx context.Context, unit string) (map[string]any, error)

// Collector reads the state of one unit.
type Collector struct {
	unit string
	read PropertyReader
}

// Option is a functional option for configuring Collector instances.
type Option func(*Collector)

// WithPropertyReader replaces the D-Bus property reader.
func WithPropertyReader(r PropertyReader) Option {
	return func(c *Collector) {
		c.read = r
	}
}

// New creates a Collector for unit.
func New(unit string, opts ...Option) *Collector {
	c := &Collector{
		unit: unit,
		read: dbusProperties,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Unit returns the unit name.
func (c *Collector) Unit() string {
	return c.unit
}

// Collect reads the unit's ActiveState. A failed D-Bus call is coded
// ErrCodeUnavailable, a missing state ErrCodeParse.
func (c *Collector) Collect(ctx context.Context) (*measurement.DescriptorBuilder, error) {
	props, err := c.read(ctx, c.unit)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to read unit properties", err,
			map[string]any{"unit": c.unit})
	}

	state, _ := props["ActiveState"].(string)
	if state == "" {
		return nil, errors.NewWithContext(errors.ErrCodeParse, "unit has no ActiveState",
			map[string]any{"unit": c.unit})
	}
	slog.Debug("unit state", "unit", c.unit, "state", state)

	b := measurement.NewDescriptorBuilder(UnitStateMetric, UnitStateHelp, LabelUnit, LabelState)
	for _, s := range activeStates {
		v := 0.0
		if s == state {
			v = 1
		}
		b.Add(v, c.unit, s)
	}
	if !slices.Contains(activeStates, state) {
		b.Add(1, c.unit, state)
	}
	return b, nil
}

func dbusProperties(ctx context.Context, unit string) (map[string]any, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	return conn.GetUnitPropertiesContext(ctx, unit)
}
