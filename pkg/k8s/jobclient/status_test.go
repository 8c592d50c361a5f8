package jobclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

func TestGetJobStatus(t *testing.T) {
	tests := []struct {
		name       string
		conditions []xgbjob.ConditionType
		want       xgbjob.ConditionType
		wantCode   apperrors.ErrorCode
	}{
		{name: "running", conditions: []xgbjob.ConditionType{xgbjob.ConditionCreated, xgbjob.ConditionRunning}, want: xgbjob.ConditionRunning},
		{name: "last condition wins", conditions: []xgbjob.ConditionType{xgbjob.ConditionRunning, xgbjob.ConditionRestarting, xgbjob.ConditionSucceeded}, want: xgbjob.ConditionSucceeded},
		{name: "no conditions", wantCode: apperrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testJob(testJobName, tt.conditions...))

			got, err := env.client.GetJobStatus(context.Background(), testJobName, "")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing job", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.client.GetJobStatus(context.Background(), testJobName, "")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	})
}

func TestStatusOf(t *testing.T) {
	phase, err := StatusOf(xgbjob.FromUnstructured(testJob(testJobName, xgbjob.ConditionCreated, xgbjob.ConditionFailed)))
	require.NoError(t, err)
	assert.Equal(t, xgbjob.ConditionFailed, phase)

	_, err = StatusOf(xgbjob.FromUnstructured(testJob(testJobName)))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	malformed := xgbjob.FromUnstructured(testJob(testJobName))
	malformed.Object["status"] = map[string]any{"conditions": "Running"}
	_, err = StatusOf(malformed)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTransport))
}

func TestIsJobSucceeded_CaseInsensitive(t *testing.T) {
	for _, literal := range []xgbjob.ConditionType{"Succeeded", "SUCCEEDED", "succeeded"} {
		t.Run(string(literal), func(t *testing.T) {
			env := newTestEnv(t, testJob(testJobName, xgbjob.ConditionRunning, literal))

			ok, err := env.client.IsJobSucceeded(context.Background(), testJobName, "")
			require.NoError(t, err)
			assert.True(t, ok)

			running, err := env.client.IsJobRunning(context.Background(), testJobName, "")
			require.NoError(t, err)
			assert.False(t, running)
		})
	}
}

func TestIsJobRunning(t *testing.T) {
	env := newTestEnv(t, testJob(testJobName, xgbjob.ConditionCreated, "RUNNING"))
	ok, err := env.client.IsJobRunning(context.Background(), testJobName, "")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("not started", func(t *testing.T) {
		env := newTestEnv(t, testJob(testJobName))
		ok, err := env.client.IsJobRunning(context.Background(), testJobName, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing job", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.client.IsJobSucceeded(context.Background(), testJobName, "")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	})
}
