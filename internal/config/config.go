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

// Package config provides configuration management for build-seeker with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file (YAML or TOML)
//  4. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
	"github.com/sirseerhq/build-seeker/internal/output"
)

const apiRootFormat = "https://appcenter.ms/api/v0.1/apps/%s/%s"

var consoleURLPattern = regexp.MustCompile(`^https://appcenter\.ms/orgs/(.*)`)

// LoadConfig loads configuration from a file and the environment. If
// configPath is provided, it loads from that specific file. Otherwise, it
// searches standard locations:
//   - .build-seeker.yaml, .build-seeker.yml, .build-seeker.toml (current directory)
//   - ~/.build-seeker/config.yaml, ~/.build-seeker/config.toml
//
// A missing file in the standard locations is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home, _ := os.UserHomeDir()
		defaultPaths := []string{
			".build-seeker.yaml",
			".build-seeker.yml",
			".build-seeker.toml",
			filepath.Join(home, ".build-seeker", "config.yaml"),
			filepath.Join(home, ".build-seeker", "config.toml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads a YAML or TOML file, chosen by extension.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	keyEnv := cfg.AppCenter.KeyEnv
	if keyEnv == "" {
		keyEnv = "APPCENTER_API_KEY"
	}
	if key := os.Getenv(keyEnv); key != "" {
		cfg.AppCenter.APIKey = key
	}
	if appURL := os.Getenv("APPCENTER_APP_URL"); appURL != "" {
		cfg.AppCenter.AppURL = appURL
	}
	if baseURL := os.Getenv("APPCENTER_API_BASE_URL"); baseURL != "" {
		cfg.AppCenter.APIBaseURL = baseURL
	}
	if branch := os.Getenv("APPCENTER_BRANCH"); branch != "" {
		cfg.Defaults.Branch = branch
	}

	if format := os.Getenv("BUILD_SEEKER_OUTPUT"); format != "" {
		cfg.Defaults.OutputFormat = format
	}
	if timeout := os.Getenv("BUILD_SEEKER_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			cfg.Defaults.TimeoutSeconds = seconds
		}
	}
	if verbose := os.Getenv("BUILD_SEEKER_VERBOSE"); verbose != "" {
		cfg.Defaults.Verbose = parseBool(verbose)
	}
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// CleanAppURL rewrites an App Center console URL of the form
// https://appcenter.ms/orgs/{org}/apps/{app}[/...] into the API root
// https://appcenter.ms/api/v0.1/apps/{org}/{app}.
func CleanAppURL(appURL string) (string, error) {
	match := consoleURLPattern.FindStringSubmatch(appURL)
	if match == nil {
		return "", fmt.Errorf("invalid app URL %q: expected https://appcenter.ms/orgs/<org>/apps/<app>: %w",
			appURL, seekerrors.ErrInvalidConfig)
	}

	parts := strings.Split(match[1], "/")
	if len(parts) < 3 || parts[0] == "" || parts[2] == "" {
		return "", fmt.Errorf("invalid app URL %q: missing organization or app name: %w",
			appURL, seekerrors.ErrInvalidConfig)
	}

	return fmt.Sprintf(apiRootFormat, parts[0], parts[2]), nil
}

// APIRoot returns the normalized base URL for build API requests.
func (c *Config) APIRoot() (string, error) {
	if c.AppCenter.APIBaseURL != "" {
		return strings.TrimRight(c.AppCenter.APIBaseURL, "/"), nil
	}
	return CleanAppURL(c.AppCenter.AppURL)
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	if c.Defaults.RequestTimeout > 0 {
		return c.Defaults.RequestTimeout
	}
	return time.Duration(c.Defaults.TimeoutSeconds) * time.Second
}

// Validate checks that the configuration can drive the API. Every failure
// wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.AppCenter.APIKey == "" {
		return fmt.Errorf("API key not found. Set %s or use --key flag: %w",
			c.keyEnvName(), seekerrors.ErrInvalidConfig)
	}
	if c.AppCenter.AppURL == "" && c.AppCenter.APIBaseURL == "" {
		return fmt.Errorf("app URL not found. Set APPCENTER_APP_URL or use --app flag: %w", seekerrors.ErrInvalidConfig)
	}
	if _, err := c.APIRoot(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Defaults.Branch) == "" {
		return fmt.Errorf("branch cannot be empty: %w", seekerrors.ErrInvalidConfig)
	}
	switch c.Defaults.OutputFormat {
	case output.FormatText, output.FormatNDJSON:
	default:
		return fmt.Errorf("unknown output format %q: %w", c.Defaults.OutputFormat, seekerrors.ErrInvalidConfig)
	}
	if c.Defaults.RequestTimeout < 0 {
		return fmt.Errorf("timeout must be positive, got: %s: %w", c.Defaults.RequestTimeout, seekerrors.ErrInvalidConfig)
	}
	if c.Defaults.RequestTimeout == 0 && c.Defaults.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got: %d: %w", c.Defaults.TimeoutSeconds, seekerrors.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) keyEnvName() string {
	if c.AppCenter.KeyEnv != "" {
		return c.AppCenter.KeyEnv
	}
	return "APPCENTER_API_KEY"
}
