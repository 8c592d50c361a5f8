// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/logging"
)

const (
	name           = "xgbjob"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the CLI with the process arguments and exits non-zero on failure.
// SIGINT and SIGTERM cancel in-flight requests and waits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps failures to process exit codes: 2 for timeouts and
// cancellation, 1 for everything else.
func exitCode(err error) int {
	if apperrors.IsCode(err, apperrors.ErrCodeTimeout) {
		return 2
	}
	return 1
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Usage:                 "Submit, watch and inspect XGBoostJobs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			kubeconfigFlag,
			contextFlag,
			namespaceFlag,
			requestTimeoutFlag,
			logLevelFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			createCmd(),
			getCmd(),
			listCmd(),
			patchCmd(),
			deleteCmd(),
			waitCmd(),
			statusCmd(),
			logsCmd(),
			checkAccessCmd(),
		},
	}
}
