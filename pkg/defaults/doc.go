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

// Package defaults provides centralized configuration constants for the
// XGBoostJob client.
//
// # Timeout Categories
//
//   - Kubernetes API timeouts: bound a single API server round trip
//   - Condition wait defaults: poll interval and overall wait deadline
//   - Log retrieval limits: fan-out when reading logs of several pods
//
// # Usage
//
//	reqCtx, cancel := context.WithTimeout(ctx, defaults.APIServerTimeout)
//	defer cancel()
//
// Wait helpers fall back to JobWaitTimeout and JobPollInterval when the
// caller leaves them zero.
package defaults
