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

	"github.com/sirseerhq/build-seeker/internal/output"
	"github.com/sirseerhq/build-seeker/internal/progress"
)

// CancelRange cancels every build in [first, end), one request at a time and
// in ascending order. Cancel failures are logged by the client and do not stop
// the loop; the returned error only reports a failure to write progress or a
// done context.
func (d *Driver) CancelRange(ctx context.Context, first, end int) error {
	if first >= end {
		d.logger.Infof("Nothing to cancel: range [%d, %d) is empty", first, end)
		return nil
	}

	d.logger.Infof("Cancelling builds %d to %d", first, end-1)

	start := d.clock.Now()
	startBuild := first
	for current := first; current < end; {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.client.Cancel(ctx, current)
		d.tracker.RecordCancel()
		current++

		est := progress.Since(startBuild, current, end, start, d.clock.Now())
		if err := d.out.Write(output.NewProgressEvent("cancel", current, end, est)); err != nil {
			return fmt.Errorf("failed to write progress: %w", err)
		}
	}

	return nil
}
