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
	"fmt"
	"strings"
	"time"

	authv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

// PermissionCheck is the outcome of one access review.
type PermissionCheck struct {
	Group       string `json:"group,omitempty" yaml:"group,omitempty"`
	Resource    string `json:"resource" yaml:"resource"`
	Subresource string `json:"subresource,omitempty" yaml:"subresource,omitempty"`
	Verb        string `json:"verb" yaml:"verb"`
	Namespace   string `json:"namespace" yaml:"namespace"`
	Allowed     bool   `json:"allowed" yaml:"allowed"`
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type accessRequirement struct {
	group, resource, subresource, verb string
}

// requiredAccess lists every verb the client uses.
func requiredAccess() []accessRequirement {
	reqs := make([]accessRequirement, 0, 9)
	for _, verb := range []string{"create", "get", "list", "watch", "patch", "delete"} {
		reqs = append(reqs, accessRequirement{group: xgbjob.Group, resource: xgbjob.Plural, verb: verb})
	}
	return append(reqs,
		accessRequirement{resource: "pods", verb: "list"},
		accessRequirement{resource: "pods", subresource: "log", verb: "get"},
	)
}

// CheckPermissions asks the API server whether the current identity may
// perform every operation this client issues in the namespace. All checks
// are returned; the error lists those that are denied.
func (c *Client) CheckPermissions(ctx context.Context, namespace string) ([]PermissionCheck, error) {
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}

	reqs := requiredAccess()
	checks := make([]PermissionCheck, 0, len(reqs))
	var missing []string

	for _, req := range reqs {
		check, err := c.checkPermission(ctx, req, ns)
		if err != nil {
			return checks, err
		}
		checks = append(checks, check)

		if !check.Allowed {
			resource := req.resource
			if req.subresource != "" {
				resource += "/" + req.subresource
			}
			missing = append(missing, fmt.Sprintf("%s %s", req.verb, resource))
		}
	}

	if len(missing) > 0 {
		return checks, apperrors.NewWithContext(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("missing required permissions:\n  - %s", strings.Join(missing, "\n  - ")),
			map[string]any{"namespace": ns})
	}
	return checks, nil
}

func (c *Client) checkPermission(ctx context.Context, req accessRequirement, ns string) (PermissionCheck, error) {
	review := &authv1.SelfSubjectAccessReview{
		Spec: authv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authv1.ResourceAttributes{
				Group:       req.group,
				Resource:    req.resource,
				Subresource: req.subresource,
				Verb:        req.verb,
				Namespace:   ns,
			},
		},
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	result, err := c.kube.AuthorizationV1().SelfSubjectAccessReviews().Create(reqCtx, review, metav1.CreateOptions{})
	err = classify("access review", err, map[string]any{"namespace": ns, "verb": req.verb, "resource": req.resource})
	observe("access_review", start, err)
	if err != nil {
		return PermissionCheck{}, err
	}

	return PermissionCheck{
		Group:       req.group,
		Resource:    req.resource,
		Subresource: req.subresource,
		Verb:        req.verb,
		Namespace:   ns,
		Allowed:     result.Status.Allowed,
		Reason:      result.Status.Reason,
	}, nil
}
