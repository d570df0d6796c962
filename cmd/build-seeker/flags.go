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
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/build-seeker/internal/config"
	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	app        string
	key        string
	branch     string
	configPath string
	output     string
	outputFile string
	timeout    time.Duration
	apiBaseURL string
	verbose    bool
}

func (f *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.app, "app", "", "App Center app URL, e.g. https://appcenter.ms/orgs/<org>/apps/<app> (overrides APPCENTER_APP_URL)")
	fs.StringVar(&f.key, "key", "", "App Center API token (overrides APPCENTER_API_KEY)")
	fs.StringVar(&f.branch, "branch", "develop", "Branch to list and queue builds on (overrides APPCENTER_BRANCH)")
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML or TOML configuration file")
	fs.StringVar(&f.output, "output", "text", "Progress output format: text or ndjson")
	fs.StringVar(&f.outputFile, "output-file", "", "Write progress lines to this file instead of stdout")
	fs.DurationVar(&f.timeout, "timeout", 30*time.Second, "Timeout for each API request")
	fs.StringVar(&f.apiBaseURL, "api-base-url", "", "Use this API root instead of deriving it from --app")
	fs.BoolVar(&f.verbose, "verbose", false, "Log every API request")
}

// resolveConfig loads the file and environment configuration and applies the
// flags the user set explicitly, which take precedence over both.
func resolveConfig(cmd *cobra.Command, f *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", seekerrors.ErrInvalidConfig, err)
	}

	fs := cmd.Flags()
	if fs.Changed("app") {
		cfg.AppCenter.AppURL = f.app
		// An API root from the environment or a file was derived for another app.
		if !fs.Changed("api-base-url") {
			cfg.AppCenter.APIBaseURL = ""
		}
	}
	if fs.Changed("key") {
		cfg.AppCenter.APIKey = f.key
	}
	if fs.Changed("branch") {
		cfg.Defaults.Branch = f.branch
	}
	if fs.Changed("output") {
		cfg.Defaults.OutputFormat = f.output
	}
	if fs.Changed("timeout") {
		if f.timeout <= 0 {
			return nil, fmt.Errorf("timeout must be positive, got: %s: %w", f.timeout, seekerrors.ErrInvalidConfig)
		}
		cfg.Defaults.RequestTimeout = f.timeout
	}
	if fs.Changed("api-base-url") {
		cfg.AppCenter.APIBaseURL = f.apiBaseURL
	}
	if fs.Changed("verbose") {
		cfg.Defaults.Verbose = f.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseBuildNumber parses a positional build number argument.
func parseBuildNumber(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected a build number: %w", name, arg, seekerrors.ErrInvalidConfig)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %d: build numbers are not negative: %w", name, n, seekerrors.ErrInvalidConfig)
	}
	return n, nil
}
