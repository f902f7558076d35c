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
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/NVIDIA/multipath-exporter/pkg/config"
	"github.com/NVIDIA/multipath-exporter/pkg/errors"
	"github.com/NVIDIA/multipath-exporter/pkg/measurement"
	"github.com/NVIDIA/multipath-exporter/pkg/multipath"
	"github.com/NVIDIA/multipath-exporter/pkg/registry"
	"github.com/NVIDIA/multipath-exporter/pkg/runner"
	"github.com/NVIDIA/multipath-exporter/pkg/server"
	"github.com/NVIDIA/multipath-exporter/pkg/systemd"
	"github.com/NVIDIA/multipath-exporter/pkg/validator"
)

const defaultName = "multipath-exporter"

// Snapshotter owns the refresh loop. It validates the host, publishes a
// snapshot per cycle and keeps the HTTP server running until its context
// is cancelled.
type Snapshotter struct {
	cfg      config.Config
	name     string
	version  string
	clock    clock.Clock
	exec     runner.Executor
	check    Validator
	source   Source
	unit     UnitSource
	registry *registry.Registry
	server   Server
	notify   Notifier
	watchdog time.Duration

	cycle     uint64
	state     atomic.Int32
	heartbeat atomic.Int64
}

// Option is a functional option for configuring Snapshotter instances.
type Option func(*Snapshotter)

// WithName sets the service name reported by the server.
func WithName(name string) Option {
	return func(s *Snapshotter) {
		s.name = name
	}
}

// WithVersion sets the build version reported by the server.
func WithVersion(version string) Option {
	return func(s *Snapshotter) {
		s.version = version
	}
}

// WithClock sets the clock driving the refresh interval.
func WithClock(c clock.Clock) Option {
	return func(s *Snapshotter) {
		s.clock = c
	}
}

// WithExecutor sets the executor used by the default validator and source.
func WithExecutor(e runner.Executor) Option {
	return func(s *Snapshotter) {
		s.exec = e
	}
}

// WithValidator replaces the host validator.
func WithValidator(v Validator) Option {
	return func(s *Snapshotter) {
		s.check = v
	}
}

// WithSource replaces the multipath data source.
func WithSource(src Source) Option {
	return func(s *Snapshotter) {
		s.source = src
	}
}

// WithUnitSource replaces the systemd unit state source.
func WithUnitSource(u UnitSource) Option {
	return func(s *Snapshotter) {
		s.unit = u
	}
}

// WithRegistry sets the registry snapshots are published to.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Snapshotter) {
		s.registry = r
	}
}

// WithServer replaces the HTTP server.
func WithServer(srv Server) Option {
	return func(s *Snapshotter) {
		s.server = srv
	}
}

// WithNotifier sets the service manager notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Snapshotter) {
		s.notify = n
	}
}

// WithWatchdog sets the watchdog ping interval. Zero disables pings; by
// default the interval is derived from $WATCHDOG_USEC.
func WithWatchdog(d time.Duration) Option {
	return func(s *Snapshotter) {
		s.watchdog = d
	}
}

// New creates a Snapshotter for cfg. The configuration is validated and not
// modified afterwards.
func New(cfg config.Config, opts ...Option) (*Snapshotter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	versions, err := cfg.VersionRange()
	if err != nil {
		return nil, err
	}

	s := &Snapshotter{
		cfg:      cfg,
		name:     defaultName,
		version:  "dev",
		clock:    clock.RealClock{},
		notify:   SystemdNotifier,
		watchdog: -1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.exec == nil {
		s.exec = runner.New()
	}
	if s.check == nil {
		s.check = validator.New(
			validator.WithExecutor(s.exec),
			validator.WithBinary(cfg.MultipathBinary),
			validator.WithVersionRange(versions),
			validator.WithTimeout(cfg.CommandTimeout),
		)
	}
	if s.source == nil {
		s.source = multipath.NewClient(s.exec,
			multipath.WithBinary(cfg.MultipathdBinary),
			multipath.WithTimeout(cfg.CommandTimeout),
		)
	}
	if s.unit == nil && cfg.SystemdUnit != "" {
		s.unit = systemd.New(cfg.SystemdUnit)
	}
	if s.registry == nil {
		s.registry = registry.New(registry.WithSelfMetrics(prometheus.DefaultGatherer))
	}
	if s.server == nil {
		s.server = server.New(
			server.WithName(s.name),
			server.WithVersion(s.version),
			server.WithAddress(cfg.ListenAddress, cfg.ListenPort),
			server.WithHandler(s.Handlers()),
		)
	}
	if s.watchdog < 0 {
		s.watchdog = watchdogInterval()
	}

	s.state.Store(int32(StateStarting))
	return s, nil
}

// watchdogInterval returns half the systemd watchdog timeout, or zero when
// the watchdog is not enabled for this process.
func watchdogInterval() time.Duration {
	d, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		slog.Warn("ignoring invalid watchdog settings", "error", err)
		return 0
	}
	return d / 2
}

// Handlers returns the routes served next to /health and /ready.
func (s *Snapshotter) Handlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		s.cfg.MetricsPath: MetricsHandler(s.registry.Gatherer()),
	}
}

// MetricsHandler serves the Prometheus text exposition of g. A failing
// collector does not hide the metrics that were gathered.
func MetricsHandler(g prometheus.Gatherer) http.HandlerFunc {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}).ServeHTTP
}

// Registry returns the registry snapshots are published to.
func (s *Snapshotter) Registry() *registry.Registry {
	return s.registry
}

// State returns the current lifecycle phase.
func (s *Snapshotter) State() State {
	return State(s.state.Load())
}

func (s *Snapshotter) setState(st State) {
	old := State(s.state.Swap(int32(st)))
	if old != st {
		slog.Debug("state changed", "from", old.String(), "to", st.String())
	}
}

// Run validates the host, publishes the first snapshot, starts the server
// and refreshes the snapshot every collect interval until ctx is
// cancelled. It always returns a non-nil error: ErrCodeInterrupted after a
// cancellation, or the fatal condition that stopped it.
func (s *Snapshotter) Run(ctx context.Context) error {
	defer s.setState(StateTerminated)

	s.setState(StateValidating)
	e := s.check.Validate(ctx)
	if !e.Eligible {
		if ctx.Err() != nil {
			return errors.Wrap(errors.ErrCodeInterrupted, "interrupted during validation", ctx.Err())
		}
		return e.Err()
	}

	if err := s.Cycle(ctx); err != nil {
		if errors.IsCode(err, errors.ErrCodeInterrupted) {
			return err
		}
		slog.Error("initial refresh cycle failed", "error", err)
	}

	if err := s.server.Listen(); err != nil {
		return err
	}

	s.setState(StateServing)
	s.beat()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.Start(gctx); err != nil {
			return err
		}
		if ctx.Err() == nil {
			return errors.New(errors.ErrCodeUnavailable, "server stopped")
		}
		return nil
	})
	g.Go(func() error {
		return s.loop(gctx)
	})
	if s.watchdog > 0 {
		g.Go(func() error {
			s.ping(gctx)
			return nil
		})
	}

	s.sendNotify(daemon.SdNotifyReady)
	err := g.Wait()
	s.sendNotify(daemon.SdNotifyStopping)

	if ctx.Err() != nil {
		slog.Info("interrupted, exporter stopped")
		return errors.Wrap(errors.ErrCodeInterrupted, "interrupted", ctx.Err())
	}
	if err == nil {
		err = errors.New(errors.ErrCodeInternal, "refresh loop stopped")
	}
	return err
}

// loop runs one cycle per collect interval. Cycles never overlap.
func (s *Snapshotter) loop(ctx context.Context) error {
	for {
		t := s.clock.NewTimer(s.cfg.CollectInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.Wrap(errors.ErrCodeInterrupted, "refresh loop interrupted", ctx.Err())
		case <-t.C():
		}

		if err := s.Cycle(ctx); err != nil {
			if errors.IsCode(err, errors.ErrCodeInterrupted) {
				return err
			}
			slog.Error("refresh cycle failed", "error", err)
		}
		s.beat()
		if s.watchdog > 0 {
			s.sendNotify(daemon.SdNotifyWatchdog)
		}
	}
}

// Cycle runs one refresh: load the multipath state, build a snapshot and
// publish it. A failed load publishes a snapshot without LUN samples so
// stale paths are not served. Panics are recovered and reported as
// ErrCodeCycle. Cycle must not be called concurrently.
func (s *Snapshotter) Cycle(ctx context.Context) (err error) {
	start := s.clock.Now()
	s.cycle++
	n := s.cycle
	status := statusSuccess

	defer func() {
		if r := recover(); r != nil {
			status = statusPanic
			err = errors.NewWithContext(errors.ErrCodeCycle, "refresh cycle panicked", map[string]any{
				"cycle": n,
				"panic": fmt.Sprint(r),
			})
		}
		cycleDuration.Observe(s.clock.Since(start).Seconds())
		cycleTotal.WithLabelValues(status).Inc()
	}()

	maps, loadErr := s.source.Load(ctx)
	if loadErr != nil {
		if ctx.Err() != nil || errors.IsCode(loadErr, errors.ErrCodeInterrupted) {
			status = statusInterrupted
			return errors.Wrap(errors.ErrCodeInterrupted, "refresh cycle interrupted", loadErr)
		}
		status = statusFailed
		slog.Error("cannot get valid data from multipathd",
			"cycle", n,
			"code", string(errors.CodeOf(loadErr)),
			"error", loadErr)
		maps = nil
	}

	snap := multipath.BuildSnapshotAt(maps, start, s.unitState(ctx)).Stamp(n, start)
	s.publish(snap)

	if loadErr != nil {
		return errors.WrapWithContext(errors.ErrCodeCycle, "refresh cycle failed", loadErr,
			map[string]any{"cycle": n})
	}
	lastSuccess.Set(float64(start.Unix()))
	return nil
}

// unitState returns the unit state descriptor, or nil when it is disabled
// or cannot be read.
func (s *Snapshotter) unitState(ctx context.Context) *measurement.DescriptorBuilder {
	if s.unit == nil {
		return nil
	}
	b, err := s.unit.Collect(ctx)
	if err != nil {
		slog.Warn("cannot read systemd unit state", "error", err)
		return nil
	}
	return b
}

func (s *Snapshotter) publish(snap *measurement.Snapshot) {
	changes := measurement.Compare(s.registry.Current(), snap)
	for _, c := range changes {
		slog.Debug("sample changed",
			"kind", string(c.Kind),
			"metric", c.Metric,
			"labels", c.LabelValues,
			"old", c.Old,
			"new", c.New)
	}

	s.registry.Replace(snap)
	snapshotSamples.Set(float64(snap.SampleCount()))

	slog.Info("snapshot published",
		"cycle", snap.Cycle,
		"samples", snap.SampleCount(),
		"changes", len(changes))
}

func (s *Snapshotter) beat() {
	s.heartbeat.Store(s.clock.Now().UnixNano())
}

// alive reports whether the loop finished a cycle recently enough.
func (s *Snapshotter) alive() bool {
	last := time.Unix(0, s.heartbeat.Load())
	return s.clock.Since(last) <= s.cfg.CollectInterval+2*s.cfg.CommandTimeout
}

// ping sends WATCHDOG=1 every watchdog interval while the loop is alive.
func (s *Snapshotter) ping(ctx context.Context) {
	for {
		t := s.clock.NewTimer(s.watchdog)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C():
		}
		if s.alive() {
			s.sendNotify(daemon.SdNotifyWatchdog)
		} else {
			slog.Warn("refresh loop stalled, skipping watchdog ping")
		}
	}
}

func (s *Snapshotter) sendNotify(state string) {
	if s.notify == nil {
		return
	}
	if err := s.notify(state); err != nil {
		slog.Warn("failed to notify service manager", "state", state, "error", err)
	}
}
