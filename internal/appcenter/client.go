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

package appcenter

import (
	"context"
	"fmt"

	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
)

// Client defines the interface for interacting with the App Center build API.
// This interface allows for easy mocking in tests.
type Client interface {
	// Cancel asks the API to move a build to the cancelling state. Failures are
	// logged by the implementation and never reported to the caller.
	Cancel(ctx context.Context, buildNumber int)

	// ListBranchBuilds returns the builds of a branch, most recent first.
	// A response that is not a JSON array fails with ErrUnexpectedResponse.
	ListBranchBuilds(ctx context.Context, branch string) ([]Build, error)

	// LatestBuild returns the most recent build of a branch.
	LatestBuild(ctx context.Context, branch string) (Build, error)

	// CreateBuild queues a build of sourceVersion on the branch.
	CreateBuild(ctx context.Context, branch, sourceVersion string) CreateResult
}

// latestOf picks the first build of a branch listing and checks that it can
// serve as the starting point of a seek.
func latestOf(builds []Build, branch string) (Build, error) {
	if len(builds) == 0 {
		return Build{}, fmt.Errorf("branch %q: %w", branch, seekerrors.ErrNoBuilds)
	}

	latest := builds[0]
	if latest.BuildNumber <= 0 || latest.SourceVersion == "" {
		return Build{}, &seekerrors.ShapeError{
			Operation: "get latest build",
			Body:      prettyValue(latest),
		}
	}
	return latest, nil
}
