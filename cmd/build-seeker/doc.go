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

// Package main implements the build-seeker command-line interface.
// This tool drives the App Center build API to either cancel a range of
// build numbers or advance a branch's build number to a target by queueing
// builds and cancelling each one shortly after it is created.
//
// The CLI supports:
//   - Cancelling builds in a half-open range with the cancel command
//   - Seeking to a target build number with the build command
//   - Text progress lines or NDJSON records on stdout
//   - Configuration from flags, environment variables or a YAML/TOML file
//
// Usage:
//
//	build-seeker cancel <min> <max> [flags]
//	build-seeker build <target> [flags]
//
// Example:
//
//	export APPCENTER_API_KEY=your_token
//	export APPCENTER_APP_URL=https://appcenter.ms/orgs/acme/apps/mobile
//	build-seeker build 2000 --branch release
//
// Exit codes:
//   - 0: Success
//   - 1: Any error, including invalid configuration, a malformed API
//     response and an expired API token
package main
