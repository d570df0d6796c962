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

package output

import (
	"fmt"
	"time"

	"github.com/sirseerhq/build-seeker/internal/progress"
)

// DateLayout renders a projected completion the way the operator console
// prints dates, e.g. "Mon Jan 15 2024 10:01:00 GMT+0000 (UTC)".
const DateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// InvalidDate is printed when the projection is degenerate.
const InvalidDate = "Invalid Date"

// ProgressEvent is emitted once per loop iteration.
type ProgressEvent struct {
	Command            string     `json:"command"`
	Build              int        `json:"build"`
	Target             int        `json:"target"`
	ElapsedMs          float64    `json:"elapsed_ms"`
	ExpectedCompletion *time.Time `json:"expected_completion"`
}

// NewProgressEvent builds the event for one iteration from its estimate.
func NewProgressEvent(command string, build, target int, est progress.Estimate) ProgressEvent {
	ev := ProgressEvent{
		Command:   command,
		Build:     build,
		Target:    target,
		ElapsedMs: est.ElapsedMs,
	}
	if completion, ok := est.CompletionTime(); ok {
		ev.ExpectedCompletion = &completion
	}
	return ev
}

// Line implements Liner.
func (e ProgressEvent) Line() string {
	return fmt.Sprintf("Build %d/%d consumed. Expected completion %s", e.Build, e.Target, e.completion())
}

func (e ProgressEvent) completion() string {
	if e.ExpectedCompletion == nil {
		return InvalidDate
	}
	return e.ExpectedCompletion.Local().Format(DateLayout)
}
