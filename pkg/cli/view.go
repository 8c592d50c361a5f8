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

package cli

import (
	"encoding/json"
	"time"

	"k8s.io/apimachinery/pkg/util/duration"

	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

const unknownValue = "<unknown>"

var jobColumns = []string{"NAME", "NAMESPACE", "PHASE", "AGE"}

// jobView renders one job: the raw object for JSON/YAML, a row for tables.
type jobView struct {
	job *xgbjob.Job
}

func (v jobView) Header() []string { return jobColumns }
func (v jobView) Rows() [][]string { return [][]string{jobRow(v.job)} }

func (v jobView) MarshalJSON() ([]byte, error) { return json.Marshal(v.job.Object) }
func (v jobView) MarshalYAML() (any, error)    { return v.job.Object, nil }

// jobListView renders jobs as a list object.
type jobListView struct {
	jobs []*xgbjob.Job
}

func (v jobListView) Header() []string { return jobColumns }

func (v jobListView) Rows() [][]string {
	rows := make([][]string, 0, len(v.jobs))
	for _, j := range v.jobs {
		rows = append(rows, jobRow(j))
	}
	return rows
}

func (v jobListView) object() map[string]any {
	items := make([]any, 0, len(v.jobs))
	for _, j := range v.jobs {
		items = append(items, j.Object)
	}
	return map[string]any{
		"apiVersion": xgbjob.GroupVersionKind().GroupVersion().String(),
		"kind":       xgbjob.ListKind,
		"items":      items,
	}
}

func (v jobListView) MarshalJSON() ([]byte, error) { return json.Marshal(v.object()) }
func (v jobListView) MarshalYAML() (any, error)    { return v.object(), nil }

// statusView is the phase of one job.
type statusView struct {
	Name      string `json:"name" yaml:"name"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Phase     string `json:"phase" yaml:"phase"`
}

func (v statusView) Header() []string { return []string{"NAME", "NAMESPACE", "PHASE"} }
func (v statusView) Rows() [][]string { return [][]string{{v.Name, v.Namespace, v.Phase}} }

func jobRow(j *xgbjob.Job) []string {
	phase := "<none>"
	if p, err := j.Phase(); err == nil {
		phase = p.String()
	}
	return []string{j.GetName(), j.GetNamespace(), phase, age(j)}
}

func age(j *xgbjob.Job) string {
	created := j.GetCreationTimestamp()
	if created.IsZero() {
		return unknownValue
	}
	return duration.HumanDuration(time.Since(created.Time))
}
