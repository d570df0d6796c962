// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import (
	"io"
	"time"

	"github.com/sirseerhq/build-seeker/internal/appcenter"
	"github.com/sirseerhq/build-seeker/internal/clock"
	"github.com/sirseerhq/build-seeker/internal/config"
	"github.com/sirseerhq/build-seeker/internal/logging"
	"github.com/sirseerhq/build-seeker/internal/metadata"
	"github.com/sirseerhq/build-seeker/internal/output"
)

// DefaultDelay is the wait before retrying a failed create and before a
// created build is cancelled.
const DefaultDelay = 1000 * time.Millisecond

// Options wires a Driver to its collaborators. Client and Config are
// required; the rest fall back to working defaults.
type Options struct {
	Client  appcenter.Client
	Config  *config.Config
	Clock   clock.Clock
	Logger  *logging.Logger
	Output  output.OutputWriter
	Tracker *metadata.Tracker

	// Delay overrides DefaultDelay.
	Delay time.Duration
}

// Driver runs the cancel and seek loops against one app.
type Driver struct {
	client     appcenter.Client
	cfg        *config.Config
	clock      clock.Clock
	logger     *logging.Logger
	out        output.OutputWriter
	tracker    *metadata.Tracker
	delay      time.Duration
	dispatcher *Dispatcher
}

// New creates a Driver. The returned driver owns a Dispatcher for deferred
// cancels; callers wait for it with Dispatcher().Wait before exiting.
func New(opts Options) *Driver {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Output == nil {
		opts.Output, _ = output.NewWriter(io.Discard, output.FormatText)
	}
	if opts.Tracker == nil {
		opts.Tracker = metadata.New(opts.Clock)
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}

	return &Driver{
		client:     opts.Client,
		cfg:        opts.Config,
		clock:      opts.Clock,
		logger:     opts.Logger,
		out:        opts.Output,
		tracker:    opts.Tracker,
		delay:      opts.Delay,
		dispatcher: NewDispatcher(opts.Client, opts.Clock, opts.Delay, opts.Logger, opts.Tracker),
	}
}

// Dispatcher returns the deferred cancel dispatcher used by Seek.
func (d *Driver) Dispatcher() *Dispatcher {
	return d.dispatcher
}

// Tracker returns the run statistics collector.
func (d *Driver) Tracker() *metadata.Tracker {
	return d.tracker
}
