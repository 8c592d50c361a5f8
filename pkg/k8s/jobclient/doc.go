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

// Package jobclient submits XGBoostJobs, waits for them to finish, and reads
// the logs of their replica pods.
//
// A Client talks to the control plane through a Transport, implemented over
// the dynamic client, and reads pods through kubernetes.Interface:
//
//	clients, err := client.BuildClients(kubeconfig, kubeContext)
//	if err != nil {
//	    return err
//	}
//	c := jobclient.NewFromClients(clients, jobclient.WithLogger(logger))
//
//	if _, err := c.Create(ctx, job, ""); err != nil {
//	    return err
//	}
//	job, err = c.WaitForJob(ctx, job.GetName(), "", jobclient.WaitOptions{
//	    Timeout:  10 * time.Minute,
//	    Interval: 30 * time.Second,
//	})
//
// Every single request is bounded by the client's request timeout. Waits are
// bounded by WaitOptions.Timeout and compare against a real deadline, so slow
// requests shorten the number of polls rather than extending the wait.
//
// All failures are *errors.StructuredError values with one of the codes
// INVALID_ARGUMENT, NOT_FOUND, CONFLICT, TRANSPORT, TIMEOUT or EMPTY_STATE.
//
// Namespaces resolve in order: the explicit argument, the namespace set on
// the job, then the client default.
package jobclient
