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
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/NVIDIA/xgbjob-client/pkg/defaults"
	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

const (
	modePoll  = "poll"
	modeWatch = "watch"

	resultMatched  = "matched"
	resultTimeout  = "timeout"
	resultCanceled = "canceled"
	resultError    = "error"
)

// Observer is invoked with every job snapshot seen while waiting. It runs on
// the waiting goroutine; a slow observer delays the next observation.
type Observer func(*xgbjob.Job)

// WaitOptions controls a condition wait.
type WaitOptions struct {
	// Timeout bounds the whole wait. Defaults to defaults.JobWaitTimeout.
	Timeout time.Duration
	// Interval is the pause between polls. Defaults to defaults.JobPollInterval.
	// Ignored in watch mode.
	Interval time.Duration
	// Observer, if set, sees each snapshot.
	Observer Observer
	// Watch selects the server-push stream instead of polling.
	Watch bool
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Timeout <= 0 {
		o.Timeout = defaults.JobWaitTimeout
	}
	if o.Interval <= 0 {
		o.Interval = defaults.JobPollInterval
	}
	return o
}

// waitState tracks one wait for logging and diagnostics.
type waitState struct {
	id           string
	mode         string
	name         string
	namespace    string
	expected     []xgbjob.ConditionType
	started      time.Time
	observations int
	last         *xgbjob.Job
}

func newWaitState(mode, name, namespace string, expected []xgbjob.ConditionType) *waitState {
	return &waitState{
		id:        uuid.NewString(),
		mode:      mode,
		name:      name,
		namespace: namespace,
		expected:  expected,
		started:   time.Now(),
	}
}

// observe records a snapshot and reports the matching condition, if any.
func (s *waitState) observe(job *xgbjob.Job, observer Observer) (*xgbjob.Condition, bool, error) {
	s.observations++
	s.last = job
	waitPollsTotal.WithLabelValues(s.mode).Inc()
	if observer != nil {
		observer(job)
	}
	cond, ok, err := job.MatchingCondition(s.expected)
	if err != nil {
		return nil, false, apperrors.WrapWithContext(apperrors.ErrCodeTransport,
			"malformed XGBoostJob status", err, target(s.name, s.namespace))
	}
	return cond, ok, nil
}

// miss records an observation in which the job was not visible.
func (s *waitState) miss() {
	s.observations++
	waitPollsTotal.WithLabelValues(s.mode).Inc()
}

func (s *waitState) finish(result string) {
	waitDuration.WithLabelValues(s.mode, result).Observe(time.Since(s.started).Seconds())
}

// timeout builds the TIMEOUT error. The last observed phase is included when
// the job was seen with at least one condition.
func (s *waitState) timeout(timeout time.Duration) error {
	s.finish(resultTimeout)
	details := target(s.name, s.namespace)
	details["expected"] = joinConditions(s.expected)
	details["observations"] = s.observations
	if s.last != nil {
		if phase, err := s.last.Phase(); err == nil {
			details["lastPhase"] = phase.String()
		}
	}
	return apperrors.NewWithContext(apperrors.ErrCodeTimeout,
		fmt.Sprintf("timed out after %v waiting for XGBoostJob condition", timeout), details)
}

func (s *waitState) canceled(err error) error {
	s.finish(resultCanceled)
	return apperrors.WrapWithContext(apperrors.ErrCodeTimeout,
		"wait for XGBoostJob condition canceled", err, target(s.name, s.namespace))
}

func joinConditions(types []xgbjob.ConditionType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ",")
}

// WaitForCondition blocks until the named job records a condition whose type
// is in expected, the timeout elapses, or ctx ends.
//
// The job is polled immediately and then every Interval until the deadline.
// A job that is not yet visible counts as a non-matching poll. Any other
// error aborts the wait.
//
// On TIMEOUT the last observed job (nil if it was never seen) is returned
// together with the error.
func (c *Client) WaitForCondition(ctx context.Context, name, namespace string, expected []xgbjob.ConditionType, opts WaitOptions) (*xgbjob.Job, error) {
	if opts.Watch {
		return c.WatchForCondition(ctx, name, namespace, expected, opts)
	}
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "job name is required")
	}
	if len(expected) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "at least one expected condition is required")
	}
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	state := newWaitState(modePoll, name, ns, expected)
	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	logger := c.logger.With("wait_id", state.id, "name", name, "namespace", ns)
	logger.Debug("waiting for XGBoostJob condition",
		"expected", joinConditions(expected), "timeout", opts.Timeout, "interval", opts.Interval)

	var matched *xgbjob.Job
	err = wait.PollUntilContextCancel(waitCtx, opts.Interval, true,
		func(pollCtx context.Context) (bool, error) {
			if pollCtx.Err() != nil {
				return false, nil
			}
			job, err := c.Get(pollCtx, name, ns)
			switch {
			case apperrors.IsCode(err, apperrors.ErrCodeNotFound):
				state.miss()
				logger.Debug("XGBoostJob not visible yet", "poll", state.observations)
				return false, nil
			case err != nil && pollCtx.Err() != nil:
				// The deadline or the caller ended the request.
				return false, nil
			case err != nil:
				return false, err
			}

			cond, ok, err := state.observe(job, opts.Observer)
			if err != nil || !ok {
				return false, err
			}
			logger.Info("XGBoostJob reached expected condition",
				"condition", cond.Type, "polls", state.observations)
			matched = job
			return true, nil
		})
	return state.result(ctx, waitCtx, matched, err, opts.Timeout)
}

// result maps the outcome of a wait loop onto the wait contract. An error on
// ctx means the caller gave up; an error only on waitCtx means the wait's own
// deadline passed.
func (s *waitState) result(ctx, waitCtx context.Context, matched *xgbjob.Job, err error, timeout time.Duration) (*xgbjob.Job, error) {
	switch {
	case err == nil && matched != nil:
		s.finish(resultMatched)
		return matched, nil
	case ctx.Err() != nil:
		return nil, s.canceled(ctx.Err())
	case waitCtx.Err() != nil && (err == nil || wait.Interrupted(err)):
		return s.last, s.timeout(timeout)
	default:
		s.finish(resultError)
		return nil, err
	}
}

// WatchForCondition has the same contract as WaitForCondition but is driven
// by a server-push stream. The current state is read first so a job that is
// already terminal is returned without subscribing. The stream is reopened
// from the last seen resource version whenever the server closes it; a
// stream that closed without delivering anything is reopened after Interval.
// Deletion of the job while waiting fails with NOT_FOUND.
func (c *Client) WatchForCondition(ctx context.Context, name, namespace string, expected []xgbjob.ConditionType, opts WaitOptions) (*xgbjob.Job, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "job name is required")
	}
	if len(expected) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "at least one expected condition is required")
	}
	ns, err := c.namespace(namespace, "")
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	state := newWaitState(modeWatch, name, ns, expected)
	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	logger := c.logger.With("wait_id", state.id, "name", name, "namespace", ns)
	logger.Debug("watching XGBoostJob for condition",
		"expected", joinConditions(expected), "timeout", opts.Timeout)

	var resourceVersion string
	job, err := c.Get(waitCtx, name, ns)
	switch {
	case err == nil:
		cond, ok, mErr := state.observe(job, opts.Observer)
		if mErr != nil {
			state.finish(resultError)
			return nil, mErr
		}
		if ok {
			state.finish(resultMatched)
			logger.Info("XGBoostJob already at expected condition", "condition", cond.Type)
			return job, nil
		}
		resourceVersion = job.GetResourceVersion()
	case apperrors.IsCode(err, apperrors.ErrCodeNotFound):
		logger.Debug("XGBoostJob not visible yet, watching for creation")
	case ctx.Err() != nil:
		return nil, state.canceled(ctx.Err())
	case waitCtx.Err() != nil:
		return nil, state.timeout(opts.Timeout)
	default:
		state.finish(resultError)
		return nil, err
	}

	var matched *xgbjob.Job
	err = wait.PollUntilContextCancel(waitCtx, opts.Interval, true,
		func(pollCtx context.Context) (bool, error) {
			for pollCtx.Err() == nil {
				w, err := c.Watch(pollCtx, name, ns, resourceVersion)
				if err != nil {
					if pollCtx.Err() != nil {
						return false, nil
					}
					return false, err
				}

				job, rv, delivered, err := c.consume(pollCtx, w, state, opts.Observer, logger)
				w.Stop()
				if job != nil {
					matched = job
					return true, nil
				}
				if err != nil {
					return false, err
				}
				resourceVersion = rv
				if !delivered {
					return false, nil
				}
				logger.Debug("reopening XGBoostJob watch", "resource_version", resourceVersion)
			}
			return false, nil
		})
	return state.result(ctx, waitCtx, matched, err, opts.Timeout)
}

// consume reads one watch stream until it matches, fails, closes, or ctx
// ends. It returns the resource version to resume from.
func (c *Client) consume(ctx context.Context, w watch.Interface, state *waitState, observer Observer, logger *slog.Logger) (*xgbjob.Job, string, bool, error) {
	var (
		rv        string
		delivered bool
	)
	for {
		select {
		case <-ctx.Done():
			return nil, rv, delivered, nil
		case event, ok := <-w.ResultChan():
			if !ok {
				return nil, rv, delivered, nil
			}
			delivered = true

			switch event.Type {
			case watch.Error:
				statusErr := apierrors.FromObject(event.Object)
				if apierrors.IsResourceExpired(statusErr) || apierrors.IsGone(statusErr) {
					// Resume point is too old; restart from current state.
					return nil, "", delivered, nil
				}
				return nil, rv, delivered, classify("watch XGBoostJob", statusErr, target(state.name, state.namespace))
			case watch.Deleted:
				return nil, rv, delivered, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
					"XGBoostJob deleted while waiting", target(state.name, state.namespace))
			case watch.Bookmark:
				if u, ok := event.Object.(*unstructured.Unstructured); ok {
					rv = u.GetResourceVersion()
				}
				continue
			}

			u, ok := event.Object.(*unstructured.Unstructured)
			if !ok {
				continue
			}
			rv = u.GetResourceVersion()
			job := xgbjob.FromUnstructured(u)
			cond, matched, err := state.observe(job, observer)
			if err != nil {
				return nil, rv, delivered, err
			}
			if matched {
				logger.Info("XGBoostJob reached expected condition",
					"condition", cond.Type, "events", state.observations)
				return job, rv, delivered, nil
			}
		}
	}
}

// WaitForJob waits until the job succeeds or fails. A failed job is a
// successful wait; inspect the returned job's phase to tell them apart.
func (c *Client) WaitForJob(ctx context.Context, name, namespace string, opts WaitOptions) (*xgbjob.Job, error) {
	return c.WaitForCondition(ctx, name, namespace, xgbjob.TerminalConditions(), opts)
}

// WatchJobs streams every job in the namespace to observer until timeout
// elapses or ctx ends. Reaching the timeout is not an error.
func (c *Client) WatchJobs(ctx context.Context, namespace string, timeout time.Duration, observer Observer) error {
	if observer == nil {
		return apperrors.New(apperrors.ErrCodeInvalidArgument, "observer is required")
	}
	if timeout <= 0 {
		timeout = defaults.JobWatchTimeout
	}
	watchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	w, err := c.Watch(watchCtx, "", namespace, "")
	if err != nil {
		if watchCtx.Err() != nil && ctx.Err() == nil {
			return nil
		}
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-watchCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		case event, ok := <-w.ResultChan():
			if !ok {
				return nil
			}
			switch event.Type {
			case watch.Error:
				return classify("watch XGBoostJobs", apierrors.FromObject(event.Object), target("", namespace))
			case watch.Bookmark:
				continue
			}
			if u, ok := event.Object.(*unstructured.Unstructured); ok {
				observer(xgbjob.FromUnstructured(u))
			}
		}
	}
}
