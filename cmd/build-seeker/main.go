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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
	"github.com/sirseerhq/build-seeker/pkg/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "build-seeker",
		Short: "Cancel App Center builds or seek a branch to a build number",
		Long: `build-seeker drives the App Center build API.

The cancel command cancels every build in a range of build numbers.
The build command queues builds on a branch until the build number
reaches a target, cancelling each created build after one second.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newCancelCommand(flags))
	rootCmd.AddCommand(newBuildCommand(flags))

	return rootCmd
}

// mapErrorToExitCode maps internal errors to exit codes. Every failure that
// reaches the top exits with 1.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// errorHint returns an operator action for errors that have one.
func errorHint(err error) string {
	switch {
	case errors.Is(err, seekerrors.ErrAuthExpired):
		return "Get a new API token and pass it with --key or APPCENTER_API_KEY."
	case errors.Is(err, seekerrors.ErrNoBuilds):
		return "Queue one build on the branch manually, then run build-seeker again."
	case errors.Is(err, seekerrors.ErrInvalidConfig):
		return "Run build-seeker --help for the available flags."
	default:
		return ""
	}
}
