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

package xgbjob

import (
	"golang.org/x/text/cases"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
)

// Project returns the type of the last condition, which is the job's current phase.
// An empty history fails with EMPTY_STATE; callers decide whether that means
// "not started yet" or an error.
func Project(conditions []Condition) (ConditionType, error) {
	if len(conditions) == 0 {
		return "", apperrors.New(apperrors.ErrCodeEmptyState, "job has no recorded conditions")
	}
	return conditions[len(conditions)-1].Type, nil
}

// PhaseIs compares a phase to a literal ignoring case, so "SUCCEEDED",
// "succeeded" and "Succeeded" all match ConditionSucceeded.
func PhaseIs(phase ConditionType, want ConditionType) bool {
	// A Caser is stateful, so a fresh one is used per comparison.
	fold := cases.Fold()
	return fold.String(string(phase)) == fold.String(string(want))
}

// IsTerminal reports whether the phase is Succeeded or Failed.
func IsTerminal(phase ConditionType) bool {
	for _, t := range TerminalConditions() {
		if PhaseIs(phase, t) {
			return true
		}
	}
	return false
}
