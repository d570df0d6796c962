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
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sirseerhq/build-seeker/internal/appcenter"
	"github.com/sirseerhq/build-seeker/internal/clock"
	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
	"github.com/sirseerhq/build-seeker/internal/output"
	"github.com/sirseerhq/build-seeker/internal/progress"
)

var _ backoff.Timer = (*clock.Timer)(nil)

// Seek queues builds on the configured branch until the build number reaches
// target. It starts from the latest build of the branch and rebuilds its
// source version. Every created build is handed to the dispatcher, which
// cancels it after the fixed delay while the loop moves on.
//
// A failed branch listing or an expired token is returned before or instead
// of looping. Any other create failure waits one back-off interval and tries
// again without advancing.
func (d *Driver) Seek(ctx context.Context, target int) error {
	branch := d.cfg.Defaults.Branch

	latest, err := d.client.LatestBuild(ctx, branch)
	if err != nil {
		return err
	}

	startBuild := int(latest.BuildNumber)
	current := startBuild
	sourceVersion := latest.SourceVersion
	d.tracker.RecordStart(startBuild)

	if current >= target {
		d.logger.Infof("Branch %s is already at build %d, target %d reached", branch, current, target)
		return nil
	}
	d.logger.Infof("Seeking %s from build %d to %d using %s", branch, current, target, sourceVersion)

	start := d.clock.Now()
	for current < target {
		n, err := d.createWithRetry(ctx, branch, sourceVersion)
		if err != nil {
			return err
		}

		d.dispatcher.Schedule(ctx, n)
		d.tracker.RecordCreated(n)

		current = n
		est := progress.Since(startBuild, current, target, start, d.clock.Now())
		if err := d.out.Write(output.NewProgressEvent("build", current, target, est)); err != nil {
			return fmt.Errorf("failed to write progress: %w", err)
		}
	}

	return nil
}

// createWithRetry queues one build, waiting one back-off interval on the
// driver's clock after every recoverable failure. A fatal result or a done
// context ends the retries.
func (d *Driver) createWithRetry(ctx context.Context, branch, sourceVersion string) (int, error) {
	var created int
	operation := func() error {
		res := d.client.CreateBuild(ctx, branch, sourceVersion)
		switch res.Status {
		case appcenter.CreateOK:
			created = res.BuildNumber
			return nil
		case appcenter.CreateFatal:
			if res.Err == nil {
				return backoff.Permanent(fmt.Errorf("create build on %s failed", branch))
			}
			return backoff.Permanent(res.Err)
		default:
			if res.Err == nil {
				return seekerrors.ErrTransient
			}
			return res.Err
		}
	}

	notify := func(err error, wait time.Duration) {
		d.logger.Errorf("Build API call failed")
		d.logger.Debugf("retrying in %s: %v", wait, err)
		d.tracker.RecordCreateFailure()
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(d.delay), ctx)
	if err := backoff.RetryNotifyWithTimer(operation, policy, notify, clock.NewTimer(d.clock)); err != nil {
		return 0, err
	}
	return created, nil
}
