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

// Package cli implements the xgbjob command-line interface.
//
// # Commands
//
//	xgbjob create -f job.yaml [--wait]     submit jobs from a manifest
//	xgbjob get NAME                        show one job
//	xgbjob list                            list jobs in a namespace
//	xgbjob patch NAME --patch '{...}'      merge-patch a job
//	xgbjob delete NAME [NAME...]           delete jobs and their pods
//	xgbjob wait NAME [--for Running]       wait for a condition
//	xgbjob status NAME                     print the current phase
//	xgbjob logs NAME [--follow]            print replica pod logs
//	xgbjob check-access                    verify RBAC for every operation
//
// # Global Flags
//
//	--kubeconfig, -k    Path to kubeconfig (env KUBECONFIG)
//	--context           Kubeconfig context
//	--namespace, -n     Namespace (env XGBJOB_NAMESPACE)
//	--request-timeout   Timeout for one API server request
//	--log-level         debug, info, warn, error (env LOG_LEVEL)
//
// Output of get, list, create, patch, wait and status is controlled by
// --format (table, json, yaml) and --output.
//
// # Exit Codes
//
//	0  Success
//	1  General error
//	2  Timeout or cancellation
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/xgbjob-client/pkg/cli.version=1.0.0'"
package cli
