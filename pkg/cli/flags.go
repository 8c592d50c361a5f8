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
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/xgbjob-client/pkg/defaults"
	k8sclient "github.com/NVIDIA/xgbjob-client/pkg/k8s/client"
	"github.com/NVIDIA/xgbjob-client/pkg/k8s/jobclient"
	"github.com/NVIDIA/xgbjob-client/pkg/logging"
	"github.com/NVIDIA/xgbjob-client/pkg/serializer"
)

var (
	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file (default: KUBECONFIG, then ~/.kube/config, then in-cluster)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}

	contextFlag = &cli.StringFlag{
		Name:  "context",
		Usage: "Kubeconfig context to use (default: current context)",
	}

	namespaceFlag = &cli.StringFlag{
		Name:    "namespace",
		Aliases: []string{"n"},
		Usage:   "Namespace of the job (default: from the manifest, then the kubeconfig context)",
		Sources: cli.EnvVars("XGBJOB_NAMESPACE"),
	}

	requestTimeoutFlag = &cli.DurationFlag{
		Name:  "request-timeout",
		Usage: "Timeout for a single API server request",
		Value: defaults.APIServerTimeout,
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars(logging.EnvLogLevel),
		Value:   "info",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (supported: %v)", serializer.SupportedFormats()),
		Value:   string(serializer.FormatTable),
	}
)

func waitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Maximum time to wait for the job",
			Value: defaults.JobWaitTimeout,
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Time between status polls",
			Value: defaults.JobPollInterval,
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Use a watch stream instead of polling",
		},
	}
}

// clientFactory builds the job client for a command. Tests replace it.
var clientFactory = func(_ context.Context, cmd *cli.Command, opts ...jobclient.Option) (*jobclient.Client, error) {
	clients, err := clusterClients(cmd.String("kubeconfig"), cmd.String("context"))
	if err != nil {
		return nil, err
	}
	return jobclient.NewFromClients(clients, opts...), nil
}

// clusterClients shares the discovered clients unless a kubeconfig or
// context was named explicitly.
func clusterClients(kubeconfig, kubeContext string) (*k8sclient.Clients, error) {
	if kubeconfig == "" && kubeContext == "" {
		return k8sclient.GetClients()
	}
	return k8sclient.BuildClients(kubeconfig, kubeContext)
}

func newClient(ctx context.Context, cmd *cli.Command, opts ...jobclient.Option) (*jobclient.Client, error) {
	base := []jobclient.Option{jobclient.WithRequestTimeout(cmd.Duration("request-timeout"))}
	return clientFactory(ctx, cmd, append(base, opts...)...)
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", outFormat)
	}
	return outFormat, nil
}

// newOutputWriter writes to --output when set, else to the command's writer.
func newOutputWriter(cmd *cli.Command) (*serializer.Writer, error) {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	if path := cmd.String("output"); path != "" {
		return serializer.NewFileWriterOrStdout(outFormat, path), nil
	}
	return serializer.NewWriter(outFormat, stdout(cmd)), nil
}

func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	w, err := newOutputWriter(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Serialize(ctx, v)
}

func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func waitOptions(cmd *cli.Command, observer jobclient.Observer) jobclient.WaitOptions {
	return jobclient.WaitOptions{
		Timeout:  cmd.Duration("timeout"),
		Interval: cmd.Duration("interval"),
		Watch:    cmd.Bool("watch"),
		Observer: observer,
	}
}

func requireArgs(cmd *cli.Command, n int, usage string) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("usage: %s %s %s", name, cmd.Name, usage)
	}
	return nil
}
