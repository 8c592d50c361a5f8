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

/*
Package xgbjob models the XGBoostJob custom resource as seen by a client.

A Job wraps the unstructured object returned by the API server. Its spec is
never interpreted on the submit path; only status.conditions is decoded.

# Conditions

The operator appends conditions (Created, Running, Restarting, Succeeded,
Failed) to status.conditions. The last entry is the current phase:

	phase, err := job.Phase() // EMPTY_STATE when no condition has been recorded

# Pod labels

Replica pods are linked to their job only through labels:

	set := xgbjob.LabelsFor("xgb-1", xgbjob.ReplicaSelector{ReplicaType: "worker"})
	xgbjob.Selector(set)
	// controller-name=xgboost-operator,group-name=kubeflow.org,xgb-job-name=xgb-1,xgb-replica-type=worker

# API version

The served version defaults to v1alpha1 and can be overridden with the
XGBJOB_VERSION environment variable.
*/
package xgbjob
