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

package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/multipath-exporter/pkg/defaults"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/version"
)

// Config is the exporter configuration.
type Config struct {
	ListenAddress    string        `yaml:"listenAddress" validate:"omitempty,ip|hostname"`
	ListenPort       int           `yaml:"listenPort" validate:"min=1,max=65535"`
	CommandTimeout   time.Duration `yaml:"cmdTimeout" validate:"gt=0"`
	CollectInterval  time.Duration `yaml:"collectInterval" validate:"gte=100ms"`
	MinVersion       string        `yaml:"minVersion" validate:"required"`
	MaxVersion       string        `yaml:"maxVersion" validate:"required"`
	MultipathBinary  string        `yaml:"multipathBinary" validate:"required"`
	MultipathdBinary string        `yaml:"multipathdBinary" validate:"required"`
	MetricsPath      string        `yaml:"metricsPath" validate:"required,startswith=/,ne=/health,ne=/ready"`
	LogLevel         string        `yaml:"logLevel" validate:"omitempty,oneof=debug info warn warning error"`

	// SystemdUnit is the unit whose state is exported. Empty disables it.
	SystemdUnit string `yaml:"systemdUnit" validate:"omitempty,max=256"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		ListenPort:       defaults.ListenPort,
		CommandTimeout:   defaults.CommandTimeout,
		CollectInterval:  defaults.CollectInterval,
		MinVersion:       defaults.MinMultipathVersion,
		MaxVersion:       defaults.MaxMultipathVersion,
		MultipathBinary:  defaults.MultipathBinary,
		MultipathdBinary: defaults.MultipathdBinary,
		MetricsPath:      defaults.MetricsPath,
		LogLevel:         "info",
		SystemdUnit:      defaults.SystemdUnit,
	}
}

// file mirrors Config with optional fields so only keys present in the
// document override the defaults.
type file struct {
	ListenAddress    *string `yaml:"listenAddress"`
	ListenPort       *int    `yaml:"listenPort"`
	CommandTimeout   *string `yaml:"cmdTimeout"`
	CollectInterval  *string `yaml:"collectInterval"`
	MinVersion       *string `yaml:"minVersion"`
	MaxVersion       *string `yaml:"maxVersion"`
	MultipathBinary  *string `yaml:"multipathBinary"`
	MultipathdBinary *string `yaml:"multipathdBinary"`
	MetricsPath      *string `yaml:"metricsPath"`
	LogLevel         *string `yaml:"logLevel"`
	SystemdUnit      *string `yaml:"systemdUnit"`
}

// LoadFile overlays the YAML document at path onto base. Unknown keys are
// rejected.
func LoadFile(base Config, path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to open config file", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	var doc file
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		return base, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse config file", err,
			map[string]any{"path": path})
	}

	return doc.apply(base)
}

func (d file) apply(c Config) (Config, error) {
	setString(&c.ListenAddress, d.ListenAddress)
	setString(&c.MinVersion, d.MinVersion)
	setString(&c.MaxVersion, d.MaxVersion)
	setString(&c.MultipathBinary, d.MultipathBinary)
	setString(&c.MultipathdBinary, d.MultipathdBinary)
	setString(&c.MetricsPath, d.MetricsPath)
	setString(&c.LogLevel, d.LogLevel)
	setString(&c.SystemdUnit, d.SystemdUnit)
	if d.ListenPort != nil {
		c.ListenPort = *d.ListenPort
	}

	var err error
	if d.CommandTimeout != nil {
		if c.CommandTimeout, err = ParseDuration(*d.CommandTimeout); err != nil {
			return c, fieldError("cmdTimeout", err)
		}
	}
	if d.CollectInterval != nil {
		if c.CollectInterval, err = ParseDuration(*d.CollectInterval); err != nil {
			return c, fieldError("collectInterval", err)
		}
	}
	return c, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func fieldError(field string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid "+field, err,
		map[string]any{"field": field})
}

// ParseDuration parses a Go duration string, or a bare number as seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs > math.MaxInt64/float64(time.Second) {
			return 0, fmt.Errorf("duration %q out of range", s)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that the version bounds parse and
// are ordered.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			fields := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fmt.Sprintf("failed %q (value %v)", fe.Tag(), fe.Value())
			}
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid configuration", fields)
		}
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid configuration", err)
	}

	if _, err := c.VersionRange(); err != nil {
		return err
	}
	return nil
}

// VersionRange parses MinVersion and MaxVersion into an inclusive range.
func (c Config) VersionRange() (version.Range, error) {
	r, err := version.NewRange(c.MinVersion, c.MaxVersion)
	if err != nil {
		return version.Range{}, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid version range", err,
			map[string]any{"min": c.MinVersion, "max": c.MaxVersion})
	}
	return r, nil
}

// Addr returns the listen address as host:port.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenAddress, c.ListenPort)
}
