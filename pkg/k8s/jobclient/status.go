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

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

// GetJobStatus returns the job's current phase, the type of its most recent
// condition. A job without conditions fails with NOT_FOUND rather than
// reporting a default phase.
func (c *Client) GetJobStatus(ctx context.Context, name, namespace string) (xgbjob.ConditionType, error) {
	job, err := c.Get(ctx, name, namespace)
	if err != nil {
		return "", err
	}
	return StatusOf(job)
}

// StatusOf projects an already fetched job onto its current phase, with the
// same errors as GetJobStatus.
func StatusOf(job *xgbjob.Job) (xgbjob.ConditionType, error) {
	phase, err := job.Phase()
	if apperrors.IsCode(err, apperrors.ErrCodeEmptyState) {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			"XGBoostJob has no status yet", err, target(job.GetName(), job.GetNamespace()))
	}
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeTransport,
			"malformed XGBoostJob status", err, target(job.GetName(), job.GetNamespace()))
	}
	return phase, nil
}

// IsJobRunning reports whether the job's current phase is Running.
func (c *Client) IsJobRunning(ctx context.Context, name, namespace string) (bool, error) {
	return c.phaseIs(ctx, name, namespace, xgbjob.ConditionRunning)
}

// IsJobSucceeded reports whether the job's current phase is Succeeded.
func (c *Client) IsJobSucceeded(ctx context.Context, name, namespace string) (bool, error) {
	return c.phaseIs(ctx, name, namespace, xgbjob.ConditionSucceeded)
}

// phaseIs treats a job that exists but has no conditions as "not in phase".
func (c *Client) phaseIs(ctx context.Context, name, namespace string, want xgbjob.ConditionType) (bool, error) {
	job, err := c.Get(ctx, name, namespace)
	if err != nil {
		return false, err
	}
	phase, err := job.Phase()
	if apperrors.IsCode(err, apperrors.ErrCodeEmptyState) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.WrapWithContext(apperrors.ErrCodeTransport,
			"malformed XGBoostJob status", err, target(job.GetName(), job.GetNamespace()))
	}
	return xgbjob.PhaseIs(phase, want), nil
}
