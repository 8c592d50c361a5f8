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
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/xgbjob-client/pkg/k8s/jobclient"
)

func checkAccessCmd() *cli.Command {
	return &cli.Command{
		Name:  "check-access",
		Usage: "Verify the current identity may manage XGBoostJobs and read their logs",
		Description: `Run a SelfSubjectAccessReview for every operation the client issues
in the namespace and report the result. Exits non-zero when any is denied.`,
		Flags: []cli.Flag{outputFlag, formatFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			c, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}

			checks, checkErr := c.CheckPermissions(ctx, cmd.String("namespace"))
			if len(checks) > 0 {
				if err := writeOutput(ctx, cmd, accessView(checks)); err != nil {
					return err
				}
			}
			return checkErr
		},
	}
}

type accessView []jobclient.PermissionCheck

func (v accessView) Header() []string {
	return []string{"VERB", "RESOURCE", "NAMESPACE", "ALLOWED", "REASON"}
}

func (v accessView) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, c := range v {
		resource := c.Resource
		if c.Subresource != "" {
			resource += "/" + c.Subresource
		}
		rows = append(rows, []string{c.Verb, resource, c.Namespace, strconv.FormatBool(c.Allowed), c.Reason})
	}
	return rows
}
