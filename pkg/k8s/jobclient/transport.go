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

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/dynamic"

	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

// Transport is the subset of control-plane operations the job client needs
// for the XGBoostJob resource. Each method is a single round trip; errors are
// returned as produced by the API machinery and classified by the Client.
type Transport interface {
	Create(ctx context.Context, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error)
	Get(ctx context.Context, namespace, name string) (*unstructured.Unstructured, error)
	List(ctx context.Context, namespace string, opts metav1.ListOptions) (*unstructured.UnstructuredList, error)
	Patch(ctx context.Context, namespace, name string, pt types.PatchType, data []byte) (*unstructured.Unstructured, error)
	Delete(ctx context.Context, namespace, name string, opts metav1.DeleteOptions) error
	Watch(ctx context.Context, namespace string, opts metav1.ListOptions) (watch.Interface, error)
}

// A wrapper for dynamic.Interface bound to one resource, so callers don't
// repeat the Resource(gvr).Namespace(ns) chain.
type dynamicTransport struct {
	client   dynamic.Interface
	resource schema.GroupVersionResource
}

// type check: dynamicTransport implements Transport
var _ Transport = &dynamicTransport{}

// NewDynamicTransport returns a Transport for the XGBoostJob resource at the
// version reported by xgbjob.Version.
func NewDynamicTransport(client dynamic.Interface) Transport {
	return NewDynamicTransportFor(client, xgbjob.GroupVersionResource())
}

// NewDynamicTransportFor returns a Transport for an explicit resource.
func NewDynamicTransportFor(client dynamic.Interface, gvr schema.GroupVersionResource) Transport {
	return &dynamicTransport{client: client, resource: gvr}
}

func (t *dynamicTransport) Create(ctx context.Context, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	return t.client.Resource(t.resource).Namespace(namespace).Create(ctx, obj, metav1.CreateOptions{})
}

func (t *dynamicTransport) Get(ctx context.Context, namespace, name string) (*unstructured.Unstructured, error) {
	return t.client.Resource(t.resource).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
}

func (t *dynamicTransport) List(ctx context.Context, namespace string, opts metav1.ListOptions) (*unstructured.UnstructuredList, error) {
	return t.client.Resource(t.resource).Namespace(namespace).List(ctx, opts)
}

func (t *dynamicTransport) Patch(ctx context.Context, namespace, name string, pt types.PatchType, data []byte) (*unstructured.Unstructured, error) {
	return t.client.Resource(t.resource).Namespace(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
}

func (t *dynamicTransport) Delete(ctx context.Context, namespace, name string, opts metav1.DeleteOptions) error {
	return t.client.Resource(t.resource).Namespace(namespace).Delete(ctx, name, opts)
}

func (t *dynamicTransport) Watch(ctx context.Context, namespace string, opts metav1.ListOptions) (watch.Interface, error) {
	return t.client.Resource(t.resource).Namespace(namespace).Watch(ctx, opts)
}
