package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/runner/runnertest"
	"github.com/NVIDIA/multipath-exporter/pkg/version"
)

const helpCmd = "multipath --help"

func root() int    { return 0 }
func nonRoot() int { return 1000 }

func newTestValidator(t *testing.T, exec *runnertest.Executor, uid func() int) *Validator {
	t.Helper()
	r, err := version.NewRange("0.4.6", "0.7.9")
	require.NoError(t, err)
	return New(
		WithExecutor(exec),
		WithVersionRange(r),
		WithEUID(uid),
	)
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name         string
		uid          func() int
		help         string
		timeout      bool
		wantEligible bool
		wantReason   []string
		wantVersion  string
	}{
		{
			name:         "supported version",
			uid:          root,
			help:         "multipath-tools v0.7.1 (08/27, 2018)\n",
			wantEligible: true,
			wantVersion:  "0.7.1",
		},
		{
			name:         "lower bound is inclusive",
			uid:          root,
			help:         "multipath-tools v0.4.6\n",
			wantEligible: true,
			wantVersion:  "0.4.6",
		},
		{
			name:         "upper bound is inclusive",
			uid:          root,
			help:         "multipath-tools v0.7.9\n",
			wantEligible: true,
			wantVersion:  "0.7.9",
		},
		{
			name:        "one patch below minimum",
			uid:         root,
			help:        "multipath-tools v0.4.5\n",
			wantReason:  []string{"0.4.5", "0.4.6", "0.7.9"},
			wantVersion: "0.4.5",
		},
		{
			name:        "one patch above maximum",
			uid:         root,
			help:        "multipath-tools v0.7.10\n",
			wantReason:  []string{"0.7.10", "0.4.6", "0.7.9"},
			wantVersion: "0.7.10",
		},
		{
			name:        "newer release names both bounds",
			uid:         root,
			help:        "multipath-tools v0.8.0\n",
			wantReason:  []string{"unsupported", "0.8.0", "0.4.6", "0.7.9"},
			wantVersion: "0.8.0",
		},
		{
			name:       "not root",
			uid:        nonRoot,
			wantReason: []string{"insufficient privilege", "1000"},
		},
		{
			name:       "help times out",
			uid:        root,
			timeout:    true,
			wantReason: []string{"cannot check multipath version", "TIMEOUT"},
		},
		{
			name:       "no version line",
			uid:        root,
			help:       "Usage: multipath [options]\n",
			wantReason: []string{ReasonVersionNotFound},
		},
		{
			name:        "unparseable version",
			uid:         root,
			help:        "multipath-tools vX.Y\n",
			wantReason:  []string{"unparseable version", `"X.Y"`},
			wantVersion: "X.Y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := runnertest.New()
			if tt.timeout {
				exec.OnTimeout(helpCmd)
			} else {
				exec.OnOutput(helpCmd, tt.help)
			}

			got := newTestValidator(t, exec, tt.uid).Validate(context.Background())

			assert.Equal(t, tt.wantEligible, got.Eligible, "reason: %s", got.Reason)
			assert.Equal(t, tt.wantVersion, got.Version)
			for _, part := range tt.wantReason {
				assert.Contains(t, got.Reason, part)
			}
		})
	}
}

func TestValidator_PrivilegeCheckedFirst(t *testing.T) {
	exec := runnertest.New().OnOutput(helpCmd, "multipath-tools v0.7.1\n")

	got := newTestValidator(t, exec, nonRoot).Validate(context.Background())

	assert.False(t, got.Eligible)
	assert.Empty(t, exec.Calls(), "no command may run for an unprivileged process")
}

func TestValidator_HelpCommandShape(t *testing.T) {
	exec := runnertest.New().OnOutput(helpCmd, "multipath-tools v0.7.1\n")

	newTestValidator(t, exec, root).Validate(context.Background())

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "multipath", calls[0].Name)
	assert.Equal(t, []string{"--help"}, calls[0].Args)
	assert.True(t, calls[0].MergeStderr, "version line is printed on stderr by some releases")
}

func TestEligibilityErr(t *testing.T) {
	ok := Eligibility{Eligible: true, Reason: "fine"}
	assert.NoError(t, ok.Err())

	bad := Eligibility{Reason: "insufficient privilege: must be run as root, uid 1000 != 0"}
	err := bad.Err()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.True(t, strings.Contains(err.Error(), "insufficient privilege"))
}

func TestNewDefaults(t *testing.T) {
	v := New()
	assert.Equal(t, "multipath", v.binary)
	assert.Equal(t, "multipath-tools", v.program)
	assert.Equal(t, "[0.4.6, 0.7.9]", v.versions.String())
	assert.NotNil(t, v.exec)
}
