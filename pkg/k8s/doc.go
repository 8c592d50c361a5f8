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

// Package k8s groups the Kubernetes integration used by xgbjob.
//
// # Sub-packages
//
// client: builds typed and dynamic clients from a kubeconfig file, an
// explicit context, or the in-cluster service account, and resolves the
// ambient namespace.
//
//	clients, err := client.GetClients()
//	if err != nil {
//	    return err
//	}
//
// jobclient: lifecycle operations on XGBoostJob resources. It covers
// create/get/list/patch/delete, waiting for conditions by polling or
// watching, and resolving replica pods and their logs.
//
//	c := jobclient.NewFromClients(clients, jobclient.WithLogger(logger))
//	job, err := c.WaitForJob(ctx, "xgb-1", "ml", jobclient.WaitOptions{})
//
// # Thread Safety
//
// Clients returned by client.GetClients are shared and safe for concurrent
// use. A jobclient.Client holds no mutable state after construction.
package k8s
