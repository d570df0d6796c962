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

package clock

import (
	"context"
	"sync"
	"time"
)

// Timer is a restartable one-shot timer that fires on a Clock. It has the
// Start, Stop and C methods the backoff retry helpers take, so retries wait on
// simulated time in tests.
type Timer struct {
	clock Clock

	mu     sync.Mutex
	c      chan time.Time
	cancel context.CancelFunc
}

// NewTimer returns a stopped timer driven by clk.
func NewTimer(clk Clock) *Timer {
	return &Timer{clock: clk}
}

// Start arms the timer to fire after d. A pending firing is discarded.
func (t *Timer) Start(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan time.Time, 1)
	t.c, t.cancel = c, cancel

	go func() {
		if err := t.clock.Sleep(ctx, d); err != nil {
			return
		}
		c <- t.clock.Now()
	}()
}

// Stop abandons the pending firing, if any.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// C returns the channel of the most recent Start. It is nil before the first Start.
func (t *Timer) C() <-chan time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.c
}
