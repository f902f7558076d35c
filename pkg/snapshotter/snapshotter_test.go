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

package snapshotter

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/NVIDIA/multipath-exporter/pkg/config"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/measurement"
	"github.com/NVIDIA/multipath-exporter/pkg/multipath"
	"github.com/NVIDIA/multipath-exporter/pkg/registry"
	"github.com/NVIDIA/multipath-exporter/pkg/runner/runnertest"
	"github.com/NVIDIA/multipath-exporter/pkg/server"
	"github.com/NVIDIA/multipath-exporter/pkg/validator"
)

const showMaps = "multipathd show maps json"

const twoPaths = `{"major_version": 0, "minor_version": 1, "maps": [
  {"name": "mpatha", "uuid": "36000a", "paths": 2, "dm_st": "active"}
]}`

const onePath = `{"major_version": 0, "minor_version": 1, "maps": [
  {"name": "mpatha", "uuid": "36000a", "paths": 1, "dm_st": "active"}
]}`

type fixedValidator struct {
	e validator.Eligibility
}

func (v fixedValidator) Validate(context.Context) validator.Eligibility { return v.e }

var okValidator = fixedValidator{e: validator.Eligibility{Eligible: true, Version: "0.7.1"}}

type fakeServer struct {
	listenErr error
	onListen  func()

	mu       sync.Mutex
	listened bool
	started  chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{started: make(chan struct{})}
}

func (f *fakeServer) Listen() error {
	f.mu.Lock()
	f.listened = true
	f.mu.Unlock()
	if f.onListen != nil {
		f.onListen()
	}
	return f.listenErr
}

func (f *fakeServer) Start(ctx context.Context) error {
	close(f.started)
	<-ctx.Done()
	return nil
}

func (f *fakeServer) didListen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listened
}

type recorder struct {
	mu     sync.Mutex
	states []string
}

func (r *recorder) notify(state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return nil
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.states...)
}

type unitFunc func(ctx context.Context) (*measurement.DescriptorBuilder, error)

func (f unitFunc) Collect(ctx context.Context) (*measurement.DescriptorBuilder, error) { return f(ctx) }

type sourceFunc func(ctx context.Context) (*multipath.Maps, error)

func (f sourceFunc) Load(ctx context.Context) (*multipath.Maps, error) { return f(ctx) }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SystemdUnit = ""
	return cfg
}

func newTestSnapshotter(t *testing.T, opts ...Option) *Snapshotter {
	t.Helper()
	base := []Option{
		WithValidator(okValidator),
		WithServer(newFakeServer()),
		WithNotifier(func(string) error { return nil }),
		WithWatchdog(0),
	}
	s, err := New(testConfig(), append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func lunPaths(t *testing.T, s *Snapshotter) float64 {
	t.Helper()
	d, ok := s.Registry().Current().Descriptor(multipath.LUNPathsMetric)
	require.True(t, ok)
	require.Len(t, d.Samples, 1)
	return d.Samples[0].Value
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ListenPort = 0

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStarting, "starting"},
		{StateValidating, "validating"},
		{StateServing, "serving"},
		{StateTerminated, "terminated"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestCycle(t *testing.T) {
	exec := runnertest.New().OnOutput(showMaps, twoPaths)
	fc := clocktesting.NewFakeClock(time.Unix(1700000000, 0))
	s := newTestSnapshotter(t, WithExecutor(exec), WithClock(fc))

	require.NoError(t, s.Cycle(context.Background()))

	snap := s.Registry().Current()
	assert.Equal(t, uint64(1), snap.Cycle)
	assert.Equal(t, fc.Now(), snap.CreatedAt)
	assert.Equal(t, float64(2), lunPaths(t, s))

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, showMaps, calls[0].String())
	assert.Equal(t, testConfig().CommandTimeout, calls[0].Timeout)
}

func TestCycleFailureClearsLUNs(t *testing.T) {
	exec := runnertest.New().On(showMaps,
		runnertest.Response{Output: []byte(twoPaths)},
		runnertest.Response{Err: errors.New(errors.ErrCodeTimeout, "command exceeded its time limit")},
	)
	s := newTestSnapshotter(t, WithExecutor(exec))

	require.NoError(t, s.Cycle(context.Background()))
	require.Equal(t, float64(2), lunPaths(t, s))

	err := s.Cycle(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCycle))
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))

	snap := s.Registry().Current()
	assert.Equal(t, uint64(2), snap.Cycle)
	d, ok := snap.Descriptor(multipath.LUNPathsMetric)
	require.True(t, ok)
	assert.Empty(t, d.Samples)
}

func TestCycleUnitState(t *testing.T) {
	unit := unitFunc(func(context.Context) (*measurement.DescriptorBuilder, error) {
		return measurement.NewDescriptorBuilder("multipathd_unit_state", "unit state", "unit", "state").
			Add(1, "multipathd.service", "active"), nil
	})
	s := newTestSnapshotter(t,
		WithExecutor(runnertest.New().OnOutput(showMaps, twoPaths)),
		WithUnitSource(unit),
	)

	require.NoError(t, s.Cycle(context.Background()))
	d, ok := s.Registry().Current().Descriptor("multipathd_unit_state")
	require.True(t, ok)
	assert.Len(t, d.Samples, 1)
}

func TestCycleUnitStateFailureIsNotFatal(t *testing.T) {
	unit := unitFunc(func(context.Context) (*measurement.DescriptorBuilder, error) {
		return nil, errors.New(errors.ErrCodeUnavailable, "failed to read unit properties")
	})
	s := newTestSnapshotter(t,
		WithExecutor(runnertest.New().OnOutput(showMaps, twoPaths)),
		WithUnitSource(unit),
	)

	require.NoError(t, s.Cycle(context.Background()))
	_, ok := s.Registry().Current().Descriptor("multipathd_unit_state")
	assert.False(t, ok)
	assert.Equal(t, float64(2), lunPaths(t, s))
}

func TestCycleRecoversPanic(t *testing.T) {
	s := newTestSnapshotter(t, WithSource(sourceFunc(func(context.Context) (*multipath.Maps, error) {
		panic("boom")
	})))

	err := s.Cycle(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCycle))
	assert.Equal(t, uint64(0), s.Registry().Publications())
}

func TestCycleInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestSnapshotter(t, WithExecutor(runnertest.New().OnOutput(showMaps, twoPaths)))

	err := s.Cycle(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInterrupted))
	assert.Equal(t, uint64(0), s.Registry().Publications())
}

func TestRunIneligible(t *testing.T) {
	srv := newFakeServer()
	exec := runnertest.New()
	s := newTestSnapshotter(t,
		WithExecutor(exec),
		WithServer(srv),
		WithValidator(fixedValidator{e: validator.Eligibility{Reason: "insufficient privilege: must be run as root, uid 1000 != 0"}}),
	)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Contains(t, err.Error(), "insufficient privilege")
	assert.False(t, srv.didListen())
	assert.Empty(t, exec.Calls())
	assert.Equal(t, StateTerminated, s.State())
}

func TestRunBindFailure(t *testing.T) {
	srv := newFakeServer()
	srv.listenErr = errors.New(errors.ErrCodeUnavailable, "failed to bind listener")
	rec := &recorder{}
	s := newTestSnapshotter(t,
		WithExecutor(runnertest.New().OnOutput(showMaps, twoPaths)),
		WithServer(srv),
		WithNotifier(rec.notify),
	)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
	assert.Empty(t, rec.all())
	assert.Equal(t, StateTerminated, s.State())
}

func TestRunPublishesBeforeListening(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := newFakeServer()
	s := newTestSnapshotter(t,
		WithExecutor(runnertest.New().OnOutput(showMaps, twoPaths)),
		WithServer(srv),
	)

	var published uint64
	srv.onListen = func() {
		published = s.Registry().Publications()
		cancel()
	}

	err := s.Run(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInterrupted))
	assert.Equal(t, uint64(1), published)
}

func TestRunLoop(t *testing.T) {
	cfg := config.Default()
	fc := clocktesting.NewFakeClock(time.Unix(1700000000, 0))
	exec := runnertest.New().On(showMaps,
		runnertest.Response{Output: []byte(twoPaths)},
		runnertest.Response{Output: []byte(onePath)},
	)
	srv := newFakeServer()
	rec := &recorder{}
	s := newTestSnapshotter(t,
		WithClock(fc),
		WithExecutor(exec),
		WithServer(srv),
		WithNotifier(rec.notify),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-srv.started:
	case <-time.After(5 * time.Second):
		t.Fatal("server was not started")
	}
	require.Eventually(t, fc.HasWaiters, 5*time.Second, time.Millisecond)
	assert.Equal(t, uint64(1), s.Registry().Publications())
	assert.Equal(t, float64(2), lunPaths(t, s))
	assert.Equal(t, StateServing, s.State())

	fc.Step(cfg.CollectInterval)
	require.Eventually(t, func() bool { return s.Registry().Publications() == 2 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, float64(1), lunPaths(t, s))
	assert.Equal(t, uint64(2), s.Registry().Current().Cycle)

	cancel()
	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInterrupted))
		assert.True(t, stderrors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, StateTerminated, s.State())
	assert.Equal(t, []string{"READY=1", "STOPPING=1"}, rec.all())
}

func TestRunLoopWatchdog(t *testing.T) {
	cfg := config.Default()
	fc := clocktesting.NewFakeClock(time.Unix(1700000000, 0))
	srv := newFakeServer()
	rec := &recorder{}
	s := newTestSnapshotter(t,
		WithClock(fc),
		WithExecutor(runnertest.New().OnOutput(showMaps, twoPaths)),
		WithServer(srv),
		WithNotifier(rec.notify),
		WithWatchdog(time.Hour),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-srv.started

	// the loop and ping timers register in either order; keep stepping
	require.Eventually(t, func() bool {
		fc.Step(cfg.CollectInterval)
		for _, st := range rec.all() {
			if st == "WATCHDOG=1" {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestRunServesMetrics(t *testing.T) {
	reg := registry.New()
	srv := server.New(
		server.WithName("multipath-exporter-test"),
		server.WithAddress("127.0.0.1", 0),
		server.WithHandler(map[string]http.HandlerFunc{
			"/metrics": MetricsHandler(reg.Gatherer()),
		}),
	)
	s := newTestSnapshotter(t,
		WithExecutor(runnertest.New().OnOutput(showMaps, twoPaths)),
		WithRegistry(reg),
		WithServer(srv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.State() == StateServing }, 5*time.Second, time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body),
		`multipathd_lun_paths{dm_st="active",uuid="36000a"} 2`), string(body))

	cancel()
	err = <-done
	assert.True(t, errors.IsCode(err, errors.ErrCodeInterrupted))
}
