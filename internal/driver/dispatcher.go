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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirseerhq/build-seeker/internal/appcenter"
	"github.com/sirseerhq/build-seeker/internal/clock"
	"github.com/sirseerhq/build-seeker/internal/logging"
	"github.com/sirseerhq/build-seeker/internal/metadata"
)

// Dispatcher cancels builds after a fixed delay on detached goroutines. The
// seek loop schedules and forgets; task failures are sent to an error channel
// that a sink goroutine drains to the logger.
//
// Tasks outlive the context passed to Schedule. They stop early only when
// Close is called.
type Dispatcher struct {
	client  appcenter.Client
	clock   clock.Clock
	delay   time.Duration
	logger  *logging.Logger
	tracker *metadata.Tracker

	base     context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
	pending  atomic.Int64
	errs     chan error
	sinkDone chan struct{}
	closed   sync.Once
}

// NewDispatcher creates a dispatcher and starts its error sink.
func NewDispatcher(client appcenter.Client, clk clock.Clock, delay time.Duration, logger *logging.Logger, tracker *metadata.Tracker) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	base, stop := context.WithCancel(context.Background())
	d := &Dispatcher{
		client:   client,
		clock:    clk,
		delay:    delay,
		logger:   logger,
		tracker:  tracker,
		base:     base,
		stop:     stop,
		errs:     make(chan error, 16),
		sinkDone: make(chan struct{}),
	}
	go d.drain()
	return d
}

// Schedule starts a task that waits the delay and then cancels buildNumber.
// It returns immediately. Schedule must not be called after Close.
func (d *Dispatcher) Schedule(ctx context.Context, buildNumber int) {
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	unregister := context.AfterFunc(d.base, cancel)

	d.wg.Add(1)
	d.pending.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.pending.Add(-1)
		defer unregister()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				d.errs <- fmt.Errorf("deferred cancel of build %d panicked: %v", buildNumber, r)
			}
		}()

		if err := d.clock.Sleep(taskCtx, d.delay); err != nil {
			d.errs <- fmt.Errorf("deferred cancel of build %d: %w", buildNumber, err)
			return
		}

		d.client.Cancel(taskCtx, buildNumber)
		if d.tracker != nil {
			d.tracker.RecordDeferredCancel()
		}
	}()
}

// Pending returns the number of tasks that have not finished.
func (d *Dispatcher) Pending() int {
	return int(d.pending.Load())
}

// Wait blocks until every scheduled task has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%d deferred cancels still pending: %w", d.Pending(), ctx.Err())
	}
}

// Close aborts tasks that are still waiting, waits for all of them to return
// and stops the error sink.
func (d *Dispatcher) Close() {
	d.closed.Do(func() {
		d.stop()
		d.wg.Wait()
		close(d.errs)
		<-d.sinkDone
	})
}

func (d *Dispatcher) drain() {
	defer close(d.sinkDone)
	for err := range d.errs {
		d.logger.Errorf("Cancel failed: %v", err)
	}
}
