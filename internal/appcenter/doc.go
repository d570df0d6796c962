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

// Package appcenter provides a client for the App Center build REST API. It
// covers the three calls build-seeker needs: cancelling a build, listing the
// builds of a branch and queueing a new build.
//
// The package includes:
//   - A Client interface consumed by the cancel and seek drivers
//   - A REST implementation on net/http with an authenticating transport
//   - A concurrency-safe MockClient for tests
//   - Wire types, including a build number that decodes from a JSON string or number
//
// Failures are reported per call site the way callers need them. Cancel logs
// and swallows every failure. ListBranchBuilds and LatestBuild return errors
// that abort a seek. CreateBuild returns a CreateResult that tells the caller
// whether to back off and retry or to stop.
//
// Basic usage:
//
//	client := appcenter.NewRESTClient("https://appcenter.ms/api/v0.1/apps/acme/mobile", apiKey,
//	    30*time.Second, logger)
//	latest, err := client.LatestBuild(ctx, "develop")
//	if err != nil {
//	    // Handle error
//	}
//	res := client.CreateBuild(ctx, "develop", latest.SourceVersion)
//	if res.Status == appcenter.CreateOK {
//	    client.Cancel(ctx, res.BuildNumber)
//	}
package appcenter
