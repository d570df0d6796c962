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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/build-seeker/internal/appcenter"
	"github.com/sirseerhq/build-seeker/internal/clock"
	"github.com/sirseerhq/build-seeker/internal/config"
	"github.com/sirseerhq/build-seeker/internal/driver"
	"github.com/sirseerhq/build-seeker/internal/logging"
	"github.com/sirseerhq/build-seeker/internal/metadata"
	"github.com/sirseerhq/build-seeker/internal/output"
	"github.com/sirseerhq/build-seeker/pkg/version"
)

// session is everything one command invocation runs with. It is built once
// from the resolved configuration.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	writer *output.Writer
	driver *driver.Driver
}

func newSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Defaults.Verbose)

	apiRoot, err := cfg.APIRoot()
	if err != nil {
		return nil, err
	}
	logger.Debugf("Using API root %s", apiRoot)

	var writer *output.Writer
	if flags.outputFile != "" {
		writer, err = output.NewFileWriter(flags.outputFile, cfg.Defaults.OutputFormat)
	} else {
		writer, err = output.NewWriter(cmd.OutOrStdout(), cfg.Defaults.OutputFormat)
	}
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	d := driver.New(driver.Options{
		Client:  appcenter.NewRESTClient(apiRoot, cfg.AppCenter.APIKey, cfg.Timeout(), logger),
		Config:  cfg,
		Clock:   clk,
		Logger:  logger,
		Output:  writer,
		Tracker: metadata.New(clk),
	})

	return &session{cfg: cfg, logger: logger, writer: writer, driver: d}, nil
}

// finish waits for deferred cancels, prints the run summary and returns
// runErr. Outstanding cancels get one request timeout beyond their delay.
func (s *session) finish(command string, params metadata.RunParams, runErr error) error {
	dispatcher := s.driver.Dispatcher()
	if n := dispatcher.Pending(); n > 0 {
		s.logger.Infof("Waiting for %d deferred cancels", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), driver.DefaultDelay+s.cfg.Timeout())
	defer cancel()
	if err := dispatcher.Wait(ctx); err != nil {
		s.logger.Warnf("Exiting before all deferred cancels finished: %v", err)
	}
	dispatcher.Close()

	summary := s.driver.Tracker().GenerateSummary(version.Version, command, params)
	if s.writer.Format() == output.FormatNDJSON {
		if err := s.writer.Write(summary); err != nil && runErr == nil {
			runErr = fmt.Errorf("failed to write summary: %w", err)
		}
	} else {
		s.logger.Infof("%s", summary.Line())
	}

	if err := s.writer.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
