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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

// GetPodNames returns the sorted names of the job's pods that match the
// replica selector. No matching pods is an empty result, not an error.
func (c *Client) GetPodNames(ctx context.Context, name, namespace string, sel xgbjob.ReplicaSelector) ([]string, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "job name is required")
	}
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}

	set := xgbjob.LabelsFor(name, sel)
	if err := xgbjob.ValidateLabels(set); err != nil {
		return nil, err
	}
	selector := xgbjob.Selector(set)

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	pods, err := c.kube.CoreV1().Pods(ns).List(reqCtx, metav1.ListOptions{LabelSelector: selector})
	err = classify("list pods", err, target(name, ns))
	observe("list_pods", start, err)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(pods.Items))
	for _, pod := range pods.Items {
		names = append(names, pod.Name)
	}
	slices.Sort(names)
	names = slices.Compact(names)

	if len(names) == 0 {
		c.logger.Warn("no pods match XGBoostJob selector",
			"name", name, "namespace", ns, "selector", selector)
	}
	return names, nil
}

// GetLogs returns the logs of every pod matching the selector, keyed by pod
// name. No matching pods fails with NOT_FOUND. A failure reading any pod
// fails the whole call. With follow set, each stream is read until the
// container exits or ctx ends.
func (c *Client) GetLogs(ctx context.Context, name, namespace string, sel xgbjob.ReplicaSelector, follow bool) (map[string]string, error) {
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}
	pods, err := c.requirePods(ctx, name, ns, sel)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	logs := make(map[string]string, len(pods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.logConcurrency)
	for _, pod := range pods {
		g.Go(func() error {
			text, err := c.readLogs(gctx, pod, ns, follow)
			if err != nil {
				return err
			}
			mu.Lock()
			logs[pod] = text
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logs, nil
}

// StreamLogs follows the logs of every matching pod and writes each line to
// w prefixed with the pod name. It returns when all streams end or ctx is
// canceled.
func (c *Client) StreamLogs(ctx context.Context, w io.Writer, name, namespace string, sel xgbjob.ReplicaSelector) error {
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return err
	}
	pods, err := c.requirePods(ctx, name, ns, sel)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, pod := range pods {
		g.Go(func() error {
			stream, err := c.openLogs(gctx, pod, ns, true)
			if err != nil {
				return err
			}
			defer stream.Close()

			if err := copyPrefixed(gctx, w, &mu, pod, stream); err != nil {
				return classify("stream pod logs", err, map[string]any{"pod": pod, "namespace": ns})
			}
			return nil
		})
	}
	return g.Wait()
}

// maxLogLineBytes bounds a single log line; longer lines fail the stream.
const maxLogLineBytes = 4 * 1024 * 1024

// copyPrefixed writes each line of r to w as "[pod] line", holding mu per line.
func copyPrefixed(ctx context.Context, w io.Writer, mu *sync.Mutex, pod string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		mu.Lock()
		_, err := fmt.Fprintf(w, "[%s] %s\n", pod, scanner.Text())
		mu.Unlock()
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

// requirePods resolves pods and escalates an empty set to NOT_FOUND.
func (c *Client) requirePods(ctx context.Context, name, ns string, sel xgbjob.ReplicaSelector) ([]string, error) {
	pods, err := c.GetPodNames(ctx, name, ns, sel)
	if err != nil {
		return nil, err
	}
	if len(pods) == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			"no pods found for XGBoostJob", target(name, ns))
	}
	return pods, nil
}

// openLogs opens a pod log stream. Followed streams are bounded only by ctx.
func (c *Client) openLogs(ctx context.Context, pod, ns string, follow bool) (io.ReadCloser, error) {
	start := time.Now()
	req := c.kube.CoreV1().Pods(ns).GetLogs(pod, &corev1.PodLogOptions{Follow: follow})
	stream, err := req.Stream(ctx)
	err = classify("get pod logs", err, map[string]any{"pod": pod, "namespace": ns})
	observe("get_logs", start, err)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (c *Client) readLogs(ctx context.Context, pod, ns string, follow bool) (string, error) {
	if !follow {
		var cancel context.CancelFunc
		ctx, cancel = c.requestContext(ctx)
		defer cancel()
	}

	stream, err := c.openLogs(ctx, pod, ns, follow)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, stream); err != nil {
		return "", classify("read pod logs", err, map[string]any{"pod": pod, "namespace": ns})
	}
	return buf.String(), nil
}
