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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// FallbackNamespace is used when neither kubeconfig nor the pod environment names one.
const FallbackNamespace = "default"

// Clients bundles everything a job client needs to reach the control plane.
type Clients struct {
	// Kube serves pods and pod logs.
	Kube kubernetes.Interface
	// Dynamic serves the XGBoostJob custom resource.
	Dynamic dynamic.Interface
	// Config is the rest configuration both clients were built from.
	Config *rest.Config
	// Namespace is the ambient default namespace: the kubeconfig context's
	// namespace out of cluster, the pod's namespace in cluster.
	Namespace string
}

var (
	clientOnce    sync.Once
	cachedClients *Clients
	clientErr     error
)

// GetClients returns singleton clients built with automatic discovery,
// creating them on first call. Subsequent calls reuse the same connections.
func GetClients() (*Clients, error) {
	clientOnce.Do(func() {
		cachedClients, clientErr = BuildClients("", "")
	})
	return cachedClients, clientErr
}

// BuildClients creates clients from the given kubeconfig file and context,
// bypassing the singleton cache.
//
// Parameters:
//   - kubeconfig: Path to kubeconfig file. If empty, uses automatic discovery:
//     1. KUBECONFIG environment variable
//     2. ~/.kube/config (if it exists)
//     3. In-cluster configuration (service account)
//   - kubeContext: kubeconfig context to use; empty selects current-context.
//     Ignored in cluster.
func BuildClients(kubeconfig, kubeContext string) (*Clients, error) {
	config, namespace, err := loadConfig(kubeconfig, kubeContext)
	if err != nil {
		return nil, err
	}

	kube, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &Clients{
		Kube:      kube,
		Dynamic:   dyn,
		Config:    config,
		Namespace: namespace,
	}, nil
}

func loadConfig(kubeconfig, kubeContext string) (*rest.Config, string, error) {
	rules := &clientcmd.ClientConfigLoadingRules{}

	switch {
	case kubeconfig != "":
		rules.ExplicitPath = kubeconfig
	case os.Getenv(clientcmd.RecommendedConfigPathEnvVar) != "":
		rules.Precedence = filepath.SplitList(os.Getenv(clientcmd.RecommendedConfigPathEnvVar))
	default:
		home := filepath.Join(homedir.HomeDir(), ".kube", "config")
		if _, err := os.Stat(home); err == nil {
			rules.Precedence = []string{home}
		}
	}

	// Use InClusterConfig directly when no kubeconfig is available
	// This avoids the warning: "Neither --kubeconfig nor --master was specified"
	if rules.ExplicitPath == "" && len(rules.Precedence) == 0 {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, InClusterNamespace(), nil
	}

	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
	cc := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	config, err := cc.ClientConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build kube config from %s: %w", describe(rules), err)
	}

	namespace, _, err := cc.Namespace()
	if err != nil || namespace == "" {
		namespace = FallbackNamespace
	}

	return config, namespace, nil
}

func describe(rules *clientcmd.ClientConfigLoadingRules) string {
	if rules.ExplicitPath != "" {
		return rules.ExplicitPath
	}
	return strings.Join(rules.Precedence, string(filepath.ListSeparator))
}
