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

// Package metadata types define the structures that summarize one
// build-seeker invocation. They are rendered at exit and never persisted.
package metadata

import (
	"fmt"
	"time"
)

// RunSummary is the record printed when a command finishes. With NDJSON output
// it is written as the final line; with text output its Line is printed.
type RunSummary struct {
	ToolVersion string     `json:"tool_version"`
	Command     string     `json:"command"`
	Parameters  RunParams  `json:"parameters"`
	Results     RunResults `json:"results"`
}

// RunParams captures the inputs of the run.
type RunParams struct {
	Branch string `json:"branch,omitempty"`
	Min    int    `json:"min,omitempty"`
	Max    int    `json:"max,omitempty"`
	Target int    `json:"target,omitempty"`
}

// RunResults holds the counters collected while the driver ran.
type RunResults struct {
	CancelsIssued   int       `json:"cancels_issued"`
	BuildsCreated   int       `json:"builds_created"`
	CreateFailures  int       `json:"create_failures"`
	Backoffs        int       `json:"backoffs"`
	DeferredCancels int       `json:"deferred_cancels"`
	StartBuild      int       `json:"start_build,omitempty"`
	LastBuild       int       `json:"last_build,omitempty"`
	Duration        string    `json:"duration"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Line renders the summary for text output.
func (s *RunSummary) Line() string {
	r := s.Results
	switch s.Command {
	case "cancel":
		return fmt.Sprintf("Cancelled builds %d to %d: %d cancel requests in %s",
			s.Parameters.Min, s.Parameters.Max-1, r.CancelsIssued, r.Duration)
	case "build":
		return fmt.Sprintf("Reached build %d from %d on %s: %d builds created, %d failed attempts, %d deferred cancels in %s",
			r.LastBuild, r.StartBuild, s.Parameters.Branch, r.BuildsCreated, r.CreateFailures, r.DeferredCancels, r.Duration)
	default:
		return fmt.Sprintf("%s finished in %s", s.Command, r.Duration)
	}
}
