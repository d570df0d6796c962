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

// Package progress projects when a build-number loop will reach its target by
// extrapolating the rate observed so far.
package progress

import (
	"math"
	"time"
)

// Estimate is the projection for one loop iteration. All values are in
// milliseconds. TotalMs and CompletionMs are +Inf or NaN when no progress has
// been made since the start; callers render that case rather than hide it.
type Estimate struct {
	ElapsedMs    float64
	TotalMs      float64
	CompletionMs float64
}

// Compute projects completion from counts and millisecond timestamps:
// total = (target-start) * elapsed / (current-start), completion = startTime + total.
func Compute(startCount, currentCount, targetCount int, startTimeMs, nowMs int64) Estimate {
	elapsed := float64(nowMs - startTimeMs)
	total := float64(targetCount-startCount) * elapsed / float64(currentCount-startCount)
	return Estimate{
		ElapsedMs:    elapsed,
		TotalMs:      total,
		CompletionMs: float64(startTimeMs) + total,
	}
}

// Since is Compute for wall-clock times.
func Since(startCount, currentCount, targetCount int, start, now time.Time) Estimate {
	return Compute(startCount, currentCount, targetCount, start.UnixMilli(), now.UnixMilli())
}

// Finite reports whether the projection produced a usable completion time.
func (e Estimate) Finite() bool {
	return !math.IsInf(e.CompletionMs, 0) && !math.IsNaN(e.CompletionMs)
}

// CompletionTime converts the projection to a time. The second result is false
// when the projection is degenerate.
func (e Estimate) CompletionTime() (time.Time, bool) {
	if !e.Finite() || math.Abs(e.CompletionMs) > math.MaxInt64/2 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(e.CompletionMs)), true
}

// Elapsed returns the elapsed time as a duration.
func (e Estimate) Elapsed() time.Duration {
	return time.Duration(e.ElapsedMs) * time.Millisecond
}
