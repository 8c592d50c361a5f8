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

package defaults

import "time"

// Kubernetes API timeouts.
const (
	// APIServerTimeout bounds a single round trip to the API server.
	// Distinct from the overall wait deadline of the condition poller.
	APIServerTimeout = 120 * time.Second

	// K8sCleanupTimeout is the timeout for cleanup operations.
	K8sCleanupTimeout = 30 * time.Second
)

// Condition wait defaults.
const (
	// JobWaitTimeout is the default overall deadline for waiting on a job condition.
	JobWaitTimeout = 600 * time.Second

	// JobPollInterval is the default sleep between two status polls.
	JobPollInterval = 30 * time.Second

	// JobWatchTimeout is the default lifetime of a watch subscription.
	JobWatchTimeout = 600 * time.Second
)

// Log retrieval limits.
const (
	// LogFetchConcurrency caps the number of pods whose logs are read at once.
	LogFetchConcurrency = 4
)

// HTTP client timeouts for fetching remote job manifests.
const (
	// HTTPClientTimeout is the total timeout for fetching a manifest.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second
)
