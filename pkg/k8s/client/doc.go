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

// Package client builds the Kubernetes clients used by the XGBoostJob client.
//
// Two clients are built from one rest configuration: a typed clientset for
// pods and pod logs, and a dynamic client for the XGBoostJob custom resource.
// The ambient default namespace is resolved alongside them.
//
//	clients, err := client.BuildClients("/path/to/kubeconfig", "prod-context")
//	if err != nil {
//	    return fmt.Errorf("failed to build clients: %w", err)
//	}
//
// GetClients caches one set of clients built with automatic discovery:
//
//	clients, err := client.GetClients()
//
// # Authentication Modes
//
// Out of cluster, the kubeconfig is taken from the explicit path, then the
// KUBECONFIG environment variable, then ~/.kube/config. The selected context's
// namespace becomes the default namespace.
//
// In cluster (no kubeconfig found), the service account credentials are used
// and the default namespace is read from POD_NAMESPACE or the mounted
// service-account namespace file.
//
// # Namespace Precedence
//
// ResolveNamespace picks, in order: the caller's explicit namespace, the
// namespace on the job object, the ambient default.
//
// # Testing
//
// Use the client-go fakes:
//
//	kube := fake.NewClientset()
//	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, listKinds)
package client
