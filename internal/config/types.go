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

// Package config types define the configuration structures used throughout
// build-seeker. These settings can be loaded from YAML or TOML configuration
// files, environment variables, or command-line flags.
package config

import (
	"time"

	"github.com/sirseerhq/build-seeker/internal/output"
)

// Config is built once at startup and passed by reference to the API client
// and both drivers. Nothing reads configuration from ambient state after that.
type Config struct {
	AppCenter AppCenterConfig `yaml:"appcenter" toml:"appcenter"`
	Defaults  DefaultsConfig  `yaml:"defaults" toml:"defaults"`
}

// AppCenterConfig identifies the app and the credentials used to drive its
// build API. AppURL is the console URL of the app as copied from a browser,
// for example https://appcenter.ms/orgs/acme/apps/mobile. APIBaseURL, when
// set, is used as the API root verbatim and AppURL is not rewritten; this
// exists for proxies and test servers.
type AppCenterConfig struct {
	AppURL     string `yaml:"app_url" toml:"app_url"`
	APIKey     string `yaml:"api_key" toml:"api_key"`
	APIBaseURL string `yaml:"api_base_url" toml:"api_base_url"`
	KeyEnv     string `yaml:"key_env" toml:"key_env"`
}

// DefaultsConfig contains settings shared by the cancel and build commands.
type DefaultsConfig struct {
	Branch         string `yaml:"branch" toml:"branch"`
	OutputFormat   string `yaml:"output_format" toml:"output_format"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
	Verbose        bool   `yaml:"verbose" toml:"verbose"`

	// RequestTimeout, when positive, replaces TimeoutSeconds. It is set from
	// the --timeout flag, which accepts sub-second durations.
	RequestTimeout time.Duration `yaml:"-" toml:"-"`
}

// DefaultConfig returns a Config with the built-in defaults. The API key and
// app URL have no default and must come from a file, the environment or flags.
func DefaultConfig() *Config {
	return &Config{
		AppCenter: AppCenterConfig{
			KeyEnv: "APPCENTER_API_KEY",
		},
		Defaults: DefaultsConfig{
			Branch:         "develop",
			OutputFormat:   output.FormatText,
			TimeoutSeconds: 30,
		},
	}
}
