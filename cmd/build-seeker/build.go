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
	"github.com/spf13/cobra"

	"github.com/sirseerhq/build-seeker/internal/metadata"
)

func newBuildCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build <target>",
		Short: "Queue builds on a branch until its build number reaches target",
		Long: `Seek a branch to a target build number.

The latest build of the branch is rebuilt from the same source version
until the provider assigns a build number at or above target. Each created
build is cancelled one second after it was queued. Failed requests are
retried after one second; an expired API token stops the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseBuildNumber("target", args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, flags)
			if err != nil {
				return err
			}

			runErr := s.driver.Seek(cmd.Context(), target)
			return s.finish("build", metadata.RunParams{
				Branch: s.cfg.Defaults.Branch,
				Target: target,
			}, runErr)
		},
	}
}
