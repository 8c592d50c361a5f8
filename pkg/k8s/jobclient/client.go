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
	"encoding/json"
	"log/slog"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/xgbjob-client/pkg/defaults"
	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	k8sclient "github.com/NVIDIA/xgbjob-client/pkg/k8s/client"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

// Client manages the lifecycle of XGBoostJobs: submission, status, waiting,
// and replica logs. It holds no mutable state beyond its connections, so one
// Client may be shared by concurrent callers. No client-side locking is done;
// concurrent creates of the same name are arbitrated by the control plane.
type Client struct {
	transport        Transport
	kube             kubernetes.Interface
	defaultNamespace string
	logger           *slog.Logger
	requestTimeout   time.Duration
	strictDelete     bool
	logConcurrency   int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultNamespace sets the ambient namespace used when neither the
// caller nor the job names one.
func WithDefaultNamespace(namespace string) Option {
	return func(c *Client) {
		c.defaultNamespace = namespace
	}
}

// WithRequestTimeout bounds every single control-plane round trip.
// Defaults to defaults.APIServerTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithStrictDelete makes Delete of an absent job fail with NOT_FOUND.
// By default deletion is idempotent so cleanup paths need no special casing.
func WithStrictDelete(strict bool) Option {
	return func(c *Client) {
		c.strictDelete = strict
	}
}

// WithLogConcurrency caps how many pods have their logs read at once.
func WithLogConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.logConcurrency = n
		}
	}
}

// New creates a Client over the given job transport and pod clientset.
func New(transport Transport, kube kubernetes.Interface, opts ...Option) *Client {
	c := &Client{
		transport:      transport,
		kube:           kube,
		logger:         slog.Default(),
		requestTimeout: defaults.APIServerTimeout,
		logConcurrency: defaults.LogFetchConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromClients creates a Client from discovered cluster clients, using
// their resolved namespace as the ambient default.
func NewFromClients(clients *k8sclient.Clients, opts ...Option) *Client {
	base := []Option{WithDefaultNamespace(clients.Namespace)}
	return New(NewDynamicTransport(clients.Dynamic), clients.Kube, append(base, opts...)...)
}

// namespace resolves the namespace for a call: explicit > job > ambient.
func (c *Client) namespace(explicit, fromObject string) (string, error) {
	ns := k8sclient.ResolveNamespace(explicit, fromObject, c.defaultNamespace)
	if ns == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidArgument, "unable to resolve namespace")
	}
	return ns, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.requestTimeout)
}

// Create submits a new job. The job's spec is sent verbatim.
func (c *Client) Create(ctx context.Context, job *xgbjob.Job, namespace string) (*xgbjob.Job, error) {
	if job == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "job is nil")
	}
	ns, err := c.namespace(namespace, job.GetNamespace())
	if err != nil {
		return nil, err
	}

	clone, err := job.Clone()
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidArgument,
			"failed to encode XGBoostJob", err, target(job.GetName(), ns))
	}
	obj := clone.AsUnstructured()
	obj.SetNamespace(ns)
	if obj.GetKind() == "" {
		obj.SetGroupVersionKind(xgbjob.GroupVersionKind())
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := c.transport.Create(reqCtx, ns, obj)
	err = classify("create XGBoostJob", err, target(obj.GetName(), ns))
	observe("create", start, err)
	if err != nil {
		return nil, err
	}

	c.logger.Info("created XGBoostJob", "name", out.GetName(), "namespace", ns)
	return xgbjob.FromUnstructured(out), nil
}

// Get fetches one job. Fails with NOT_FOUND when it does not exist.
func (c *Client) Get(ctx context.Context, name, namespace string) (*xgbjob.Job, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "job name is required")
	}
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := c.transport.Get(reqCtx, ns, name)
	err = classify("get XGBoostJob", err, target(name, ns))
	observe("get", start, err)
	if err != nil {
		return nil, err
	}
	return xgbjob.FromUnstructured(out), nil
}

// List returns every job in the namespace; an empty namespace yields an
// empty slice, not an error.
func (c *Client) List(ctx context.Context, namespace string) ([]*xgbjob.Job, error) {
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := c.transport.List(reqCtx, ns, metav1.ListOptions{})
	err = classify("list XGBoostJobs", err, target("", ns))
	observe("list", start, err)
	if err != nil {
		return nil, err
	}

	jobs := make([]*xgbjob.Job, 0, len(out.Items))
	for i := range out.Items {
		jobs = append(jobs, xgbjob.FromUnstructured(&out.Items[i]))
	}
	return jobs, nil
}

// Patch applies a JSON merge patch built from the partial job.
func (c *Client) Patch(ctx context.Context, name string, partial *xgbjob.Job, namespace string) (*xgbjob.Job, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "job name is required")
	}
	if partial == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "patch is nil")
	}
	ns, err := c.namespace(namespace, partial.GetNamespace())
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(partial.Object)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidArgument,
			"failed to encode patch", err, target(name, ns))
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := c.transport.Patch(reqCtx, ns, name, types.MergePatchType, data)
	err = classify("patch XGBoostJob", err, target(name, ns))
	observe("patch", start, err)
	if err != nil {
		return nil, err
	}

	c.logger.Info("patched XGBoostJob", "name", name, "namespace", ns)
	return xgbjob.FromUnstructured(out), nil
}

// Delete removes a job and, in the foreground, its pods. Deleting an absent
// job succeeds unless the client was built WithStrictDelete(true).
func (c *Client) Delete(ctx context.Context, name, namespace string) error {
	if name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidArgument, "job name is required")
	}
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return err
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	err = c.transport.Delete(reqCtx, ns, name, metav1.DeleteOptions{
		PropagationPolicy: ptr.To(metav1.DeletePropagationForeground),
	})
	err = classify("delete XGBoostJob", err, target(name, ns))
	observe("delete", start, err)

	if apperrors.IsCode(err, apperrors.ErrCodeNotFound) && !c.strictDelete {
		c.logger.Debug("XGBoostJob already absent", "name", name, "namespace", ns)
		return nil
	}
	if err != nil {
		return err
	}

	c.logger.Info("deleted XGBoostJob", "name", name, "namespace", ns)
	return nil
}

// Watch opens a change stream for one job, or for every job in the namespace
// when name is empty. The stream lives until ctx ends or the server closes it.
func (c *Client) Watch(ctx context.Context, name, namespace, resourceVersion string) (watch.Interface, error) {
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}

	opts := metav1.ListOptions{
		ResourceVersion:     resourceVersion,
		AllowWatchBookmarks: false,
	}
	if name != "" {
		opts.FieldSelector = nameSelector(name)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if secs := int64(time.Until(deadline).Seconds()); secs > 0 {
			opts.TimeoutSeconds = ptr.To(secs)
		}
	}

	start := time.Now()
	w, err := c.transport.Watch(ctx, ns, opts)
	err = classify("watch XGBoostJobs", err, target(name, ns))
	observe("watch", start, err)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func nameSelector(name string) string {
	return fields.OneTermEqualSelector("metadata.name", name).String()
}
