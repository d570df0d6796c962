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

func newCancelCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <min> <max>",
		Short: "Cancel every build numbered from min up to, but not including, max",
		Long: `Cancel every build in the half-open range [min, max).

Builds are cancelled one request at a time in ascending order. A build
that cannot be cancelled is logged and skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseBuildNumber("min", args[0])
			if err != nil {
				return err
			}
			end, err := parseBuildNumber("max", args[1])
			if err != nil {
				return err
			}

			s, err := newSession(cmd, flags)
			if err != nil {
				return err
			}

			runErr := s.driver.CancelRange(cmd.Context(), first, end)
			return s.finish("cancel", metadata.RunParams{
				Branch: s.cfg.Defaults.Branch,
				Min:    first,
				Max:    end,
			}, runErr)
		},
	}
}
