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

package jobclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API round trips against the XGBoostJob resource and pods
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xgbjob_client_requests_total",
			Help: "Total number of control-plane requests issued by the job client",
		},
		[]string{"operation", "result"}, // result is "success" or an error code
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xgbjob_client_request_duration_seconds",
			Help:    "Latency of control-plane requests issued by the job client",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"operation"},
	)

	// Condition waits
	waitPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xgbjob_client_wait_polls_total",
			Help: "Total number of status observations made while waiting for a condition",
		},
		[]string{"mode"}, // poll or watch
	)

	waitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xgbjob_client_wait_duration_seconds",
			Help:    "Time spent waiting for a job to reach an expected condition",
			Buckets: []float64{1, 10, 30, 60, 300, 600, 1800, 3600},
		},
		[]string{"mode", "result"},
	)
)
