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
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/NVIDIA/xgbjob-client/pkg/defaults"
	"github.com/NVIDIA/xgbjob-client/pkg/k8s/jobclient"
	"github.com/NVIDIA/xgbjob-client/pkg/serializer"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

func createCmd() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Submit XGBoostJobs from a manifest",
		Description: `Submit every XGBoostJob in a YAML or JSON manifest. The manifest may
be a file, "-" for stdin, or an http(s) URL. Jobs are validated before
submission unless --skip-validation is set.

Examples:
  xgbjob create -f job.yaml
  xgbjob create -f job.yaml --wait --timeout 30m
  cat job.yaml | xgbjob -n ml create -f -`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "filename",
				Aliases:  []string{"f"},
				Usage:    "Manifest path, URL, or - for stdin",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "skip-validation",
				Usage: "Submit without client-side validation",
			},
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "Wait for each job to succeed or fail after submission",
			},
			outputFlag,
			formatFlag,
		}, waitFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			jobs, err := loadJobs(ctx, cmd.String("filename"))
			if err != nil {
				return err
			}
			if !cmd.Bool("skip-validation") {
				for _, j := range jobs {
					if err := xgbjob.Validate(j); err != nil {
						return err
					}
				}
			}

			c, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}

			created := make([]*xgbjob.Job, 0, len(jobs))
			for _, j := range jobs {
				out, err := c.Create(ctx, j, cmd.String("namespace"))
				if err != nil {
					return err
				}
				created = append(created, out)
			}

			if cmd.Bool("wait") {
				for i, j := range created {
					done, err := c.WaitForJob(ctx, j.GetName(), j.GetNamespace(), waitOptions(cmd, logPhase))
					if err != nil {
						return err
					}
					created[i] = done
				}
			}

			return writeOutput(ctx, cmd, jobListView{jobs: created})
		},
	}
}

func getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one XGBoostJob",
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

			job, err := c.Get(ctx, cmd.Args().First(), cmd.String("namespace"))
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, jobView{job: job})
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List XGBoostJobs in a namespace",
		Flags:   []cli.Flag{outputFlag, formatFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			c, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}

			jobs, err := c.List(ctx, cmd.String("namespace"))
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, jobListView{jobs: jobs})
		},
	}
}

func patchCmd() *cli.Command {
	return &cli.Command{
		Name:      "patch",
		Usage:     "Apply a JSON merge patch to an XGBoostJob",
		ArgsUsage: "NAME",
		Description: `Merge a partial object into an existing job. The patch is read from
--patch or from a manifest given with -f.

Examples:
  xgbjob patch xgb-1 --patch '{"metadata":{"labels":{"team":"ranking"}}}'
  xgbjob patch xgb-1 -f patch.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "patch",
				Usage: "Inline patch as JSON or YAML",
			},
			&cli.StringFlag{
				Name:    "filename",
				Aliases: []string{"f"},
				Usage:   "Patch file path, URL, or - for stdin",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "NAME"); err != nil {
				return err
			}
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			var (
				docs [][]byte
				err  error
			)
			switch {
			case cmd.String("patch") != "":
				docs, err = serializer.DecodeManifests([]byte(cmd.String("patch")))
			case cmd.String("filename") != "":
				docs, err = serializer.ReadManifests(ctx, cmd.String("filename"))
			default:
				return fmt.Errorf("one of --patch or --filename is required")
			}
			if err != nil {
				return err
			}
			if len(docs) != 1 {
				return fmt.Errorf("patch must contain exactly one object, got %d", len(docs))
			}

			var obj map[string]any
			if err := json.Unmarshal(docs[0], &obj); err != nil {
				return fmt.Errorf("invalid patch: %w", err)
			}
			partial := xgbjob.FromUnstructured(&unstructured.Unstructured{Object: obj})

			c, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			job, err := c.Patch(ctx, cmd.Args().First(), partial, cmd.String("namespace"))
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, jobView{job: job})
		},
	}
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete XGBoostJobs and their pods",
		ArgsUsage: "NAME [NAME...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when a job does not exist",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "NAME [NAME...]"); err != nil {
				return err
			}

			opts := []jobclient.Option{jobclient.WithStrictDelete(cmd.Bool("strict"))}
			if !cmd.IsSet("request-timeout") {
				opts = append(opts, jobclient.WithRequestTimeout(defaults.K8sCleanupTimeout))
			}
			c, err := newClient(ctx, cmd, opts...)
			if err != nil {
				return err
			}

			for _, jobName := range cmd.Args().Slice() {
				if err := c.Delete(ctx, jobName, cmd.String("namespace")); err != nil {
					return err
				}
				fmt.Fprintf(stdout(cmd), "xgboostjob %q deleted\n", jobName)
			}
			return nil
		},
	}
}

// loadJobs reads a manifest and keeps only XGBoostJob objects.
func loadJobs(ctx context.Context, path string) ([]*xgbjob.Job, error) {
	docs, err := serializer.ReadManifests(ctx, path)
	if err != nil {
		return nil, err
	}

	jobs := make([]*xgbjob.Job, 0, len(docs))
	for i, doc := range docs {
		u := &unstructured.Unstructured{}
		if err := u.UnmarshalJSON(doc); err != nil {
			return nil, fmt.Errorf("object %d in %s: %w", i, path, err)
		}
		if u.GetKind() != xgbjob.Kind {
			slog.Warn("skipping non-XGBoostJob object", "kind", u.GetKind(), "name", u.GetName())
			continue
		}
		jobs = append(jobs, xgbjob.FromUnstructured(u))
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no %s objects found in %s", xgbjob.Kind, path)
	}
	return jobs, nil
}

// logPhase is the wait observer used by commands.
func logPhase(j *xgbjob.Job) {
	phase, err := j.Phase()
	if err != nil {
		slog.Info("waiting for XGBoostJob", "name", j.GetName(), "phase", "<none>")
		return
	}
	slog.Info("waiting for XGBoostJob", "name", j.GetName(), "phase", phase)
}
