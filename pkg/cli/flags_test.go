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

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/multipath-exporter/pkg/config"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:       "valid text format",
			format:     "text",
			wantFormat: serializer.FormatText,
		},
		{
			name:       "case and space insensitive",
			format:     " JSON ",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:    "invalid format xml",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "empty format",
			format:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if tt.wantErr && !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
						t.Errorf("parseOutputFormat() error code = %v", errors.CodeOf(err))
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func runBuildConfig(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()

	var (
		cfg      config.Config
		buildErr error
	)
	cmd := &cli.Command{
		Name:  "test",
		Flags: configFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, buildErr = buildConfig(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return cfg, buildErr
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := runBuildConfig(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestBuildConfigFlags(t *testing.T) {
	cfg, err := runBuildConfig(t,
		"--listen-address", "127.0.0.1",
		"--listen-port", "9100",
		"--cmd-timeout", "2.5",
		"--collect-interval", "30s",
		"--multipathd-bin", "/usr/sbin/multipathd",
		"--metrics-path", "/probe",
	)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.ListenAddress)
	assert.Equal(t, 9100, cfg.ListenPort)
	assert.Equal(t, 2500*time.Millisecond, cfg.CommandTimeout)
	assert.Equal(t, 30*time.Second, cfg.CollectInterval)
	assert.Equal(t, "/usr/sbin/multipathd", cfg.MultipathdBinary)
	assert.Equal(t, "/probe", cfg.MetricsPath)
	assert.Equal(t, "127.0.0.1:9100", cfg.Addr())
}

func TestBuildConfigEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MULTIPATH_EXPORTER_PORT", "9300")
	t.Setenv("MULTIPATH_EXPORTER_COLLECT_INTERVAL", "5")

	cfg, err := runBuildConfig(t)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9300, cfg.ListenPort)
	assert.Equal(t, 5*time.Second, cfg.CollectInterval)
}

func TestBuildConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listenPort: 9200
cmdTimeout: 3s
maxVersion: 0.9.0
`), 0o600))

	cfg, err := runBuildConfig(t, "--config", path, "--listen-port", "9400")
	require.NoError(t, err)

	assert.Equal(t, 9400, cfg.ListenPort)
	assert.Equal(t, 3*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "0.9.0", cfg.MaxVersion)
	assert.Equal(t, config.Default().CollectInterval, cfg.CollectInterval)
}

func TestBuildConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad duration", []string{"--cmd-timeout", "soon"}},
		{"zero timeout", []string{"--cmd-timeout", "0"}},
		{"interval too short", []string{"--collect-interval", "10ms"}},
		{"port out of range", []string{"--listen-port", "70000"}},
		{"inverted versions", []string{"--min-version", "0.8.0"}},
		{"missing file", []string{"--config", "/nonexistent/exporter.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runBuildConfig(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest), "code %s", errors.CodeOf(err))
		})
	}
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, name, cmd.Name)
	assert.Contains(t, cmd.Version, version)
	assert.NotNil(t, cmd.Action)

	var names []string
	for _, c := range cmd.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"collect"}, names)

	flags := make(map[string]bool)
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			flags[n] = true
		}
	}
	for _, n := range []string{"config", "log-level", "listen-port", "cmd-timeout", "collect-interval"} {
		assert.True(t, flags[n], "missing flag %s", n)
	}
}
