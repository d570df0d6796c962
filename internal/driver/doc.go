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

// Package driver implements the two build-number loops of build-seeker.
//
// CancelRange walks a half-open range [min, max) and cancels each build in
// turn. Seek starts from the latest build of a branch and keeps queueing
// builds of the same source version until the provider's build number
// reaches a target, handing each created build to a Dispatcher that cancels
// it after a fixed delay without holding up the loop.
//
// Both loops issue one request at a time and report one progress record per
// iteration, with a completion time extrapolated from the rate so far.
// Request failures are absorbed where the loop can make progress anyway; only
// a malformed branch listing or an expired token stops a seek.
package driver
