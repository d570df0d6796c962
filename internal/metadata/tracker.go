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

// Package metadata tracks what a single build-seeker run did: how many cancel
// requests were sent, how many builds were created, how often creation failed
// and the loop backed off, and how long it all took.
//
// The tracker is shared by a driver and the deferred cancel tasks it spawns,
// so every method is safe for concurrent use. The resulting RunSummary lives
// only in memory and is written to the output stream at exit.
package metadata

import (
	"sync"
	"time"

	"github.com/sirseerhq/build-seeker/internal/clock"
)

// Tracker collects statistics during a run. Create one per command and pass
// it to the driver.
type Tracker struct {
	mu      sync.Mutex
	clock   clock.Clock
	started time.Time
	results RunResults
}

// New creates a tracker and records the current time of clk as the start.
// A nil clock uses the real clock.
func New(clk clock.Clock) *Tracker {
	if clk == nil {
		clk = clock.New()
	}
	return &Tracker{
		clock:   clk,
		started: clk.Now(),
	}
}

// RecordCancel records a cancel request issued by the range driver.
func (t *Tracker) RecordCancel() {
	t.mu.Lock()
	t.results.CancelsIssued++
	t.mu.Unlock()
}

// RecordStart records the build number a seek starts from.
func (t *Tracker) RecordStart(buildNumber int) {
	t.mu.Lock()
	t.results.StartBuild = buildNumber
	t.results.LastBuild = buildNumber
	t.mu.Unlock()
}

// RecordCreated records a successfully created build.
func (t *Tracker) RecordCreated(buildNumber int) {
	t.mu.Lock()
	t.results.BuildsCreated++
	if buildNumber > t.results.LastBuild {
		t.results.LastBuild = buildNumber
	}
	t.mu.Unlock()
}

// RecordCreateFailure records a recoverable create failure followed by a back-off.
func (t *Tracker) RecordCreateFailure() {
	t.mu.Lock()
	t.results.CreateFailures++
	t.results.Backoffs++
	t.mu.Unlock()
}

// RecordDeferredCancel records a deferred cancel that reached the API.
func (t *Tracker) RecordDeferredCancel() {
	t.mu.Lock()
	t.results.DeferredCancels++
	t.mu.Unlock()
}

// Results returns a snapshot of the counters.
func (t *Tracker) Results() RunResults {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.results
}

// GenerateSummary creates the RunSummary for the run so far.
//
// Parameters:
//   - toolVersion: The version of build-seeker (from version.Version)
//   - command: "cancel" or "build"
//   - params: The inputs of the run
func (t *Tracker) GenerateSummary(toolVersion, command string, params RunParams) *RunSummary {
	completedAt := t.clock.Now()
	results := t.Results()
	results.StartedAt = t.started
	results.CompletedAt = completedAt
	results.Duration = completedAt.Sub(t.started).Round(time.Millisecond).String()

	return &RunSummary{
		ToolVersion: toolVersion,
		Command:     command,
		Parameters:  params,
		Results:     results,
	}
}
