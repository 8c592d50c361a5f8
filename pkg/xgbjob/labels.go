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
	"fmt"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/validation"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
)

// Pod label keys set by the operator on every replica pod.
const (
	LabelGroupName      = "group-name"
	LabelControllerName = "controller-name"
	LabelJobName        = "xgb-job-name"
	LabelReplicaType    = "xgb-replica-type"
	LabelReplicaIndex   = "xgb-replica-index"
	LabelJobRole        = "job-role"

	GroupNameValue      = "kubeflow.org"
	ControllerNameValue = "xgboost-operator"
	MasterRoleValue     = "master"
)

// LabelsFor returns the label set identifying the pods of a job, narrowed by
// the selector. Optional keys are omitted, not emptied, when the selector
// leaves them unset.
func LabelsFor(jobName string, sel ReplicaSelector) map[string]string {
	set := map[string]string{
		LabelGroupName:      GroupNameValue,
		LabelControllerName: ControllerNameValue,
		LabelJobName:        jobName,
	}
	if sel.Master {
		set[LabelJobRole] = MasterRoleValue
	}
	if sel.ReplicaType != "" {
		set[LabelReplicaType] = strings.ToLower(sel.ReplicaType)
	}
	if sel.ReplicaIndex != nil {
		set[LabelReplicaIndex] = strconv.Itoa(*sel.ReplicaIndex)
	}
	return set
}

// Selector renders a label set as key=value pairs joined by commas, keys sorted.
// No escaping is done: values must not contain "," or "=", which
// ValidateLabels guarantees for anything accepted by the API server.
func Selector(set map[string]string) string {
	return labels.Set(set).String()
}

// ValidateLabels checks every value against the Kubernetes label value alphabet.
func ValidateLabels(set map[string]string) error {
	for k, v := range set {
		if errs := validation.IsValidLabelValue(v); len(errs) > 0 {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidArgument,
				fmt.Sprintf("invalid value for label %s: %s", k, strings.Join(errs, "; ")),
				map[string]any{"label": k, "value": v})
		}
	}
	return nil
}
