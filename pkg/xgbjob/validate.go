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
	"slices"
	"strings"

	"github.com/distribution/reference"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
)

// Replica types accepted by the operator.
const (
	ReplicaTypeMaster = "Master"
	ReplicaTypeWorker = "Worker"

	// DefaultContainerName is the container the operator injects cluster settings into.
	DefaultContainerName = "xgboostjob"
)

// replicaSpecKeys lists the spec fields holding replica specs across API versions.
var replicaSpecKeys = []string{"xgbReplicaSpecs", "xgboostReplicaSpec"}

type replicaSpec struct {
	Replicas *int32                 `json:"replicas,omitempty"`
	Template corev1.PodTemplateSpec `json:"template,omitempty"`
}

// Validate checks a job before submission with the same rules the operator
// enforces, so obviously broken jobs fail fast on the client:
//   - replica specs are present and typed Master or Worker
//   - exactly one Master exists, with at most one replica
//   - every replica has a container named xgboostjob
//   - every container has a parseable image reference
//
// Validate does not modify the job; the spec is still submitted verbatim.
func Validate(j *Job) error {
	if j == nil {
		return apperrors.New(apperrors.ErrCodeInvalidArgument, "job is nil")
	}
	if j.GetName() == "" {
		return apperrors.New(apperrors.ErrCodeInvalidArgument, "job has no metadata.name")
	}

	raw, err := replicaSpecs(j)
	if err != nil {
		return invalid(j, err.Error())
	}

	masterFound := false
	for rtype, value := range raw {
		valid := []string{ReplicaTypeMaster, ReplicaTypeWorker}
		if !slices.ContainsFunc(valid, func(s string) bool { return strings.EqualFold(s, rtype) }) {
			return invalid(j, fmt.Sprintf("replica type %q must be one of %v", rtype, valid))
		}

		m, ok := value.(map[string]any)
		if !ok {
			return invalid(j, fmt.Sprintf("replica spec %s is not an object", rtype))
		}
		var spec replicaSpec
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m, &spec); err != nil {
			return invalid(j, fmt.Sprintf("replica spec %s: %v", rtype, err))
		}
		if err := validateContainers(rtype, spec.Template.Spec.Containers); err != nil {
			return invalid(j, err.Error())
		}

		if strings.EqualFold(rtype, ReplicaTypeMaster) {
			if masterFound {
				return invalid(j, "more than one Master replica spec")
			}
			masterFound = true
			if spec.Replicas != nil && *spec.Replicas != 1 {
				return invalid(j, fmt.Sprintf("Master must have exactly 1 replica, got %d", *spec.Replicas))
			}
		}
	}

	if !masterFound {
		return invalid(j, "Master replica spec must be present")
	}
	return nil
}

func replicaSpecs(j *Job) (map[string]any, error) {
	for _, key := range replicaSpecKeys {
		field, found, err := unstructured.NestedFieldNoCopy(j.Object, "spec", key)
		if err != nil {
			return nil, fmt.Errorf("spec.%s: %w", key, err)
		}
		if found {
			m, ok := field.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("spec.%s is %T, not an object", key, field)
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("spec.%s is empty", key)
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("spec has none of %v", replicaSpecKeys)
}

func validateContainers(rtype string, containers []corev1.Container) error {
	if len(containers) == 0 {
		return fmt.Errorf("replica %s has no containers", rtype)
	}
	defaultPresent := false
	for _, c := range containers {
		if c.Image == "" {
			return fmt.Errorf("container %s in replica %s has no image", c.Name, rtype)
		}
		if _, err := reference.ParseNormalizedNamed(c.Image); err != nil {
			return fmt.Errorf("container %s in replica %s has invalid image %q: %w", c.Name, rtype, c.Image, err)
		}
		if c.Name == DefaultContainerName {
			defaultPresent = true
		}
	}
	if !defaultPresent {
		return fmt.Errorf("replica %s has no container named %s", rtype, DefaultContainerName)
	}
	return nil
}

func invalid(j *Job, msg string) error {
	return apperrors.NewWithContext(apperrors.ErrCodeInvalidArgument, "invalid XGBoostJob: "+msg,
		map[string]any{"name": j.GetName()})
}
