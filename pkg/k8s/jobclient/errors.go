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
	"context"
	"errors"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
)

const resultSuccess = "success"

// classify maps an API machinery error onto the client's error taxonomy.
// nil stays nil.
func classify(op string, err error, details map[string]any) error {
	if err == nil {
		return nil
	}

	var code apperrors.ErrorCode
	switch {
	case apierrors.IsNotFound(err):
		code = apperrors.ErrCodeNotFound
	case apierrors.IsAlreadyExists(err), apierrors.IsConflict(err):
		code = apperrors.ErrCodeConflict
	case apierrors.IsInvalid(err), apierrors.IsBadRequest(err):
		code = apperrors.ErrCodeInvalidArgument
	case isDeadline(err):
		code = apperrors.ErrCodeTimeout
	default:
		code = apperrors.ErrCodeTransport
	}
	return apperrors.WrapWithContext(code, fmt.Sprintf("%s failed", op), err, details)
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsServerTimeout(err)
}

// observe records one round trip in the request metrics.
func observe(op string, start time.Time, err error) {
	apiRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := resultSuccess
	if err != nil {
		result = string(apperrors.CodeOf(err))
		if result == "" {
			result = string(apperrors.ErrCodeTransport)
		}
	}
	apiRequestsTotal.WithLabelValues(op, result).Inc()
}

func target(name, namespace string) map[string]any {
	m := map[string]any{"namespace": namespace}
	if name != "" {
		m["name"] = name
	}
	return m
}
