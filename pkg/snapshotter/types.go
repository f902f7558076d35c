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

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/NVIDIA/multipath-exporter/pkg/measurement"
	"github.com/NVIDIA/multipath-exporter/pkg/multipath"
	"github.com/NVIDIA/multipath-exporter/pkg/systemd"
	"github.com/NVIDIA/multipath-exporter/pkg/validator"
)

// State is the lifecycle phase of a Snapshotter.
type State int32

const (
	StateStarting State = iota
	StateValidating
	StateServing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateValidating:
		return "validating"
	case StateServing:
		return "serving"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Validator decides whether the host can be monitored.
type Validator interface {
	Validate(ctx context.Context) validator.Eligibility
}

// Source loads the current multipath state.
type Source interface {
	Load(ctx context.Context) (*multipath.Maps, error)
}

// UnitSource reads the service manager state of the multipath daemon.
type UnitSource interface {
	Collect(ctx context.Context) (*measurement.DescriptorBuilder, error)
}

// Server serves the published snapshot. Listen binds the socket; Start
// serves until ctx is cancelled.
type Server interface {
	Listen() error
	Start(ctx context.Context) error
}

// Notifier delivers a service manager state string such as "READY=1".
type Notifier func(state string) error

// SystemdNotifier sends state to systemd over $NOTIFY_SOCKET. It is a no-op
// when the process is not run by systemd.
func SystemdNotifier(state string) error {
	_, err := daemon.SdNotify(false, state)
	return err
}

var (
	_ Validator  = (*validator.Validator)(nil)
	_ Source     = (*multipath.Client)(nil)
	_ UnitSource = (*systemd.Collector)(nil)
)
