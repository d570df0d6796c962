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

package progress

import (
	"math"
	"testing"
	"time"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name                   string
		start, current, target int
		startMs, nowMs         int64
		wantTotal              float64
		wantCompletion         float64
	}{
		{
			name:  "halfway after 100ms",
			start: 0, current: 5, target: 10,
			startMs: 0, nowMs: 100,
			wantTotal:      200,
			wantCompletion: 200,
		},
		{
			name:  "offset start time",
			start: 100, current: 101, target: 110,
			startMs: 1000, nowMs: 1500,
			wantTotal:      5000,
			wantCompletion: 6000,
		},
		{
			name:  "target reached",
			start: 7, current: 9, target: 9,
			startMs: 0, nowMs: 40,
			wantTotal:      40,
			wantCompletion: 40,
		},
		{
			name:  "no elapsed time",
			start: 1, current: 2, target: 3,
			startMs: 50, nowMs: 50,
			wantTotal:      0,
			wantCompletion: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.start, tt.current, tt.target, tt.startMs, tt.nowMs)
			if got.TotalMs != tt.wantTotal {
				t.Errorf("TotalMs = %v, want %v", got.TotalMs, tt.wantTotal)
			}
			if got.CompletionMs != tt.wantCompletion {
				t.Errorf("CompletionMs = %v, want %v", got.CompletionMs, tt.wantCompletion)
			}
			if !got.Finite() {
				t.Error("Finite() = false, want true")
			}
		})
	}
}

// The first report of a loop that has not advanced divides by zero. The
// degenerate value is kept and flagged, not replaced.
func TestComputeNoProgress(t *testing.T) {
	t.Run("elapsed time gives infinity", func(t *testing.T) {
		got := Compute(10, 10, 20, 0, 100)
		if !math.IsInf(got.TotalMs, 1) {
			t.Errorf("TotalMs = %v, want +Inf", got.TotalMs)
		}
		if got.Finite() {
			t.Error("Finite() = true, want false")
		}
		if _, ok := got.CompletionTime(); ok {
			t.Error("CompletionTime() ok = true, want false")
		}
	})

	t.Run("no elapsed time gives NaN", func(t *testing.T) {
		got := Compute(10, 10, 20, 100, 100)
		if !math.IsNaN(got.TotalMs) {
			t.Errorf("TotalMs = %v, want NaN", got.TotalMs)
		}
		if got.Finite() {
			t.Error("Finite() = true, want false")
		}
	})
}

func TestSince(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Second)

	got := Since(100, 103, 106, start, now)

	completion, ok := got.CompletionTime()
	if !ok {
		t.Fatal("CompletionTime() ok = false, want true")
	}
	if want := start.Add(time.Minute); !completion.Equal(want) {
		t.Errorf("CompletionTime() = %v, want %v", completion, want)
	}
	if got.Elapsed() != 30*time.Second {
		t.Errorf("Elapsed() = %v, want 30s", got.Elapsed())
	}
}
