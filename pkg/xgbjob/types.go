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
	"os"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utiljson "k8s.io/apimachinery/pkg/util/json"
)

// Resource coordinates of the XGBoostJob custom resource.
const (
	Group          = "xgboostjob.kubeflow.org"
	Kind           = "XGBoostJob"
	ListKind       = "XGBoostJobList"
	Plural         = "xgboostjobs"
	DefaultVersion = "v1alpha1"

	// EnvAPIVersion overrides the served API version.
	EnvAPIVersion = "XGBJOB_VERSION"
)

// Version returns the API version to address, honoring XGBJOB_VERSION.
func Version() string {
	if v := os.Getenv(EnvAPIVersion); v != "" {
		return v
	}
	return DefaultVersion
}

// GroupVersionResource returns the resource used for dynamic client calls.
func GroupVersionResource() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: Group, Version: Version(), Resource: Plural}
}

// GroupVersionKind returns the kind stamped on new objects.
func GroupVersionKind() schema.GroupVersionKind {
	return schema.GroupVersionKind{Group: Group, Version: Version(), Kind: Kind}
}

// ConditionType is a job lifecycle phase marker.
type ConditionType string

const (
	ConditionCreated    ConditionType = "Created"
	ConditionRestarting ConditionType = "Restarting"
	ConditionRunning    ConditionType = "Running"
	ConditionSucceeded  ConditionType = "Succeeded"
	ConditionFailed     ConditionType = "Failed"
)

// TerminalConditions are the conditions after which the job never changes phase.
func TerminalConditions() []ConditionType {
	return []ConditionType{ConditionSucceeded, ConditionFailed}
}

func (c ConditionType) String() string {
	return string(c)
}

// Condition is one entry of the job's append-only status history.
type Condition struct {
	Type               ConditionType `json:"type"`
	Status             string        `json:"status,omitempty"`
	Reason             string        `json:"reason,omitempty"`
	Message            string        `json:"message,omitempty"`
	LastUpdateTime     metav1.Time   `json:"lastUpdateTime,omitempty"`
	LastTransitionTime metav1.Time   `json:"lastTransitionTime,omitempty"`
}

// ReplicaSelector narrows the pods of a job. The zero value selects every pod.
type ReplicaSelector struct {
	// Master limits the selection to the pod labeled job-role=master.
	Master bool
	// ReplicaType is one of master or worker; matched case-insensitively.
	ReplicaType string
	// ReplicaIndex selects one replica of the type. Nil means all indices.
	ReplicaIndex *int
}

// Job is an XGBoostJob as stored by the control plane. The spec is opaque
// to this package and is passed to the API server verbatim.
type Job struct {
	unstructured.Unstructured
}

// NewJob builds a job with the given metadata and spec. An empty namespace
// leaves the namespace to be resolved at submission time.
//
// The spec may hold plain Go values such as int; they are stored in their
// JSON form (int64, float64). A spec JSON cannot encode is stored as given
// and rejected by Clone, and so by submission.
func NewJob(name, namespace string, spec map[string]any) *Job {
	j := &Job{}
	j.SetGroupVersionKind(GroupVersionKind())
	j.SetName(name)
	if namespace != "" {
		j.SetNamespace(namespace)
	}
	if spec != nil {
		if normalized, err := toJSONMap(spec); err == nil {
			spec = normalized
		}
		j.Object["spec"] = spec
	}
	return j
}

// Clone returns a deep copy of the job with every value in JSON form. Unlike
// DeepCopy it accepts objects assembled from plain Go values, and fails
// instead of panicking on values JSON cannot encode.
func (j *Job) Clone() (*Job, error) {
	m, err := toJSONMap(j.Object)
	if err != nil {
		return nil, fmt.Errorf("XGBoostJob %s is not JSON-encodable: %w", j.GetName(), err)
	}
	return &Job{Unstructured: unstructured.Unstructured{Object: m}}, nil
}

// toJSONMap round-trips m through JSON, the same decoding the dynamic client
// applies to server responses.
func toJSONMap(m map[string]any) (map[string]any, error) {
	data, err := utiljson.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := utiljson.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FromUnstructured wraps an object returned by the dynamic client.
func FromUnstructured(u *unstructured.Unstructured) *Job {
	if u == nil {
		return nil
	}
	return &Job{Unstructured: *u}
}

// AsUnstructured returns the underlying object for the dynamic client.
func (j *Job) AsUnstructured() *unstructured.Unstructured {
	return &j.Unstructured
}

// Conditions decodes status.conditions. A missing status or a null list is
// an empty history, not an error. Only the type is required; timestamps that
// are absent or not RFC 3339 are left zero.
func (j *Job) Conditions() ([]Condition, error) {
	field, found, err := unstructured.NestedFieldNoCopy(j.Object, "status", "conditions")
	if err != nil {
		return nil, fmt.Errorf("invalid status.conditions on %s/%s: %w", j.GetNamespace(), j.GetName(), err)
	}
	if !found || field == nil {
		return nil, nil
	}
	raw, ok := field.([]any)
	if !ok {
		return nil, fmt.Errorf("status.conditions of %s/%s is %T, not a list", j.GetNamespace(), j.GetName(), field)
	}

	conditions := make([]Condition, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("status.conditions[%d] of %s/%s is %T, not an object", i, j.GetNamespace(), j.GetName(), item)
		}
		ct, ok := m["type"].(string)
		if !ok {
			return nil, fmt.Errorf("status.conditions[%d] of %s/%s has no type", i, j.GetNamespace(), j.GetName())
		}
		conditions = append(conditions, Condition{
			Type:               ConditionType(ct),
			Status:             stringField(m, "status"),
			Reason:             stringField(m, "reason"),
			Message:            stringField(m, "message"),
			LastUpdateTime:     timeField(m, "lastUpdateTime"),
			LastTransitionTime: timeField(m, "lastTransitionTime"),
		})
	}
	return conditions, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func timeField(m map[string]any, key string) metav1.Time {
	t, err := time.Parse(time.RFC3339, stringField(m, key))
	if err != nil {
		return metav1.Time{}
	}
	return metav1.NewTime(t)
}

// MatchingCondition returns the first recorded condition whose type is in expected.
func (j *Job) MatchingCondition(expected []ConditionType) (*Condition, bool, error) {
	conditions, err := j.Conditions()
	if err != nil {
		return nil, false, err
	}
	for i := range conditions {
		for _, want := range expected {
			if conditions[i].Type == want {
				return &conditions[i], true, nil
			}
		}
	}
	return nil, false, nil
}

// Phase projects the condition history onto the current phase.
func (j *Job) Phase() (ConditionType, error) {
	conditions, err := j.Conditions()
	if err != nil {
		return "", err
	}
	return Project(conditions)
}
