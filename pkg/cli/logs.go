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
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

func logsCmd() *cli.Command {
	return &cli.Command{
		Name:      "logs",
		Usage:     "Print the logs of an XGBoostJob's replica pods",
		ArgsUsage: "NAME",
		Description: `Print pod logs for a job. Only the master replica is shown by default;
use --master=false to include workers, optionally narrowed by type and index.

Examples:
  xgbjob logs xgb-1
  xgbjob logs xgb-1 --master=false --replica-type worker --replica-index 0
  xgbjob logs xgb-1 --follow`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "master",
				Usage: "Only the master replica",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "replica-type",
				Usage: "Replica type to select (master or worker)",
			},
			&cli.IntFlag{
				Name:  "replica-index",
				Usage: "Replica index to select",
			},
			&cli.BoolFlag{
				Name:  "follow",
				Usage: "Stream logs until the pods exit",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "NAME"); err != nil {
				return err
			}
			sel := replicaSelector(cmd)

			c, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}

			jobName := cmd.Args().First()
			ns := cmd.String("namespace")
			out := stdout(cmd)

			if cmd.Bool("follow") {
				return c.StreamLogs(ctx, out, jobName, ns, sel)
			}

			logs, err := c.GetLogs(ctx, jobName, ns, sel, false)
			if err != nil {
				return err
			}

			pods := make([]string, 0, len(logs))
			for pod := range logs {
				pods = append(pods, pod)
			}
			slices.Sort(pods)

			for _, pod := range pods {
				if len(pods) > 1 {
					fmt.Fprintf(out, "==> %s <==\n", pod)
				}
				fmt.Fprint(out, logs[pod])
				if text := logs[pod]; text != "" && text[len(text)-1] != '\n' {
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
}

func replicaSelector(cmd *cli.Command) xgbjob.ReplicaSelector {
	sel := xgbjob.ReplicaSelector{
		Master:      cmd.Bool("master"),
		ReplicaType: cmd.String("replica-type"),
	}
	if cmd.IsSet("replica-index") {
		idx := int(cmd.Int("replica-index"))
		sel.ReplicaIndex = &idx
	}
	return sel
}
