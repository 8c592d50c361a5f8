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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/xgbjob-client/pkg/k8s/jobclient"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

func waitCmd() *cli.Command {
	return &cli.Command{
		Name:      "wait",
		Usage:     "Wait for an XGBoostJob to reach a condition",
		ArgsUsage: "NAME",
		Description: `Block until the job records one of the given conditions (default:
Succeeded or Failed). Exits with status 2 when the timeout elapses.

Examples:
  xgbjob wait xgb-1 --timeout 30m
  xgbjob wait xgb-1 --for Running --watch
  xgbjob wait xgb-1 --fail-on-failure`,
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:  "for",
				Usage: "Condition to wait for (can be repeated)",
				Value: []string{xgbjob.ConditionSucceeded.String(), xgbjob.ConditionFailed.String()},
			},
			&cli.BoolFlag{
				Name:  "fail-on-failure",
				Usage: "Exit non-zero when the job ends in Failed",
			},
			outputFlag,
			formatFlag,
		}, waitFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "NAME"); err != nil {
				return err
			}
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			expected, err := parseConditions(cmd.StringSlice("for"))
			if err != nil {
				return err
			}

			c, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			job, err := c.WaitForCondition(ctx, cmd.Args().First(), cmd.String("namespace"),
				expected, waitOptions(cmd, logPhase))
			if err != nil {
				return err
			}

			if err := writeOutput(ctx, cmd, jobView{job: job}); err != nil {
				return err
			}
			if phase, _ := job.Phase(); cmd.Bool("fail-on-failure") && xgbjob.PhaseIs(phase, xgbjob.ConditionFailed) {
				return fmt.Errorf("xgboostjob %q failed", job.GetName())
			}
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the current phase of an XGBoostJob",
		ArgsUsage: "NAME",
		Flags:     []cli.Flag{outputFlag, formatFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "NAME"); err != nil {
				return err
			}
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			c, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}

			jobName := cmd.Args().First()
			job, err := c.Get(ctx, jobName, cmd.String("namespace"))
			if err != nil {
				return err
			}
			phase, err := jobclient.StatusOf(job)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, statusView{
				Name:      jobName,
				Namespace: job.GetNamespace(),
				Phase:     phase.String(),
			})
		},
	}
}

// parseConditions matches names case-insensitively against the known
// condition types.
func parseConditions(values []string) ([]xgbjob.ConditionType, error) {
	known := []xgbjob.ConditionType{
		xgbjob.ConditionCreated,
		xgbjob.ConditionRestarting,
		xgbjob.ConditionRunning,
		xgbjob.ConditionSucceeded,
		xgbjob.ConditionFailed,
	}

	out := make([]xgbjob.ConditionType, 0, len(values))
	for _, v := range values {
		var matched bool
		for _, k := range known {
			if xgbjob.PhaseIs(xgbjob.ConditionType(v), k) {
				out = append(out, k)
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown condition %q (supported: %v)", v, known)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one condition is required")
	}
	return out, nil
}
