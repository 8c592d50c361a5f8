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

package client

import (
	"os"
	"strings"
)

// EnvPodNamespace is set through the downward API on pods that want to
// advertise their namespace explicitly.
const EnvPodNamespace = "POD_NAMESPACE"

// serviceAccountNamespaceFile is where the kubelet mounts the pod's namespace.
var serviceAccountNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// InClusterNamespace returns the namespace of the pod this process runs in,
// falling back to "default" when it cannot be determined.
func InClusterNamespace() string {
	if ns := strings.TrimSpace(os.Getenv(EnvPodNamespace)); ns != "" {
		return ns
	}
	data, err := os.ReadFile(serviceAccountNamespaceFile)
	if err == nil {
		if ns := strings.TrimSpace(string(data)); ns != "" {
			return ns
		}
	}
	return FallbackNamespace
}

// ResolveNamespace applies the namespace precedence: an explicit argument
// wins over the namespace carried on the object, which wins over the ambient default.
func ResolveNamespace(explicit, fromObject, ambient string) string {
	for _, ns := range []string{explicit, fromObject, ambient} {
		if ns = strings.TrimSpace(ns); ns != "" {
			return ns
		}
	}
	return ""
}
