package jobclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authv1 "k8s.io/api/authorization/v1"
	"k8s.io/apimachinery/pkg/runtime"
	k8stesting "k8s.io/client-go/testing"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

// allowReviews answers access reviews with allow(attributes).
func allowReviews(env *testEnv, allow func(*authv1.ResourceAttributes) bool) {
	env.kube.PrependReactor("create", "selfsubjectaccessreviews", func(action k8stesting.Action) (bool, runtime.Object, error) {
		review := action.(k8stesting.CreateAction).GetObject().(*authv1.SelfSubjectAccessReview)
		out := review.DeepCopy()
		out.Status.Allowed = allow(review.Spec.ResourceAttributes)
		if !out.Status.Allowed {
			out.Status.Reason = "denied by test"
		}
		return true, out, nil
	})
}

func TestCheckPermissions(t *testing.T) {
	env := newTestEnv(t)
	allowReviews(env, func(*authv1.ResourceAttributes) bool { return true })

	checks, err := env.client.CheckPermissions(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, checks, len(requiredAccess()))

	for _, c := range checks {
		assert.True(t, c.Allowed, "%s %s", c.Verb, c.Resource)
		assert.Equal(t, testNamespace, c.Namespace)
	}
	assert.Equal(t, xgbjob.Group, checks[0].Group)
	assert.Equal(t, xgbjob.Plural, checks[0].Resource)
}

func TestCheckPermissions_Denied(t *testing.T) {
	env := newTestEnv(t)
	allowReviews(env, func(attrs *authv1.ResourceAttributes) bool {
		return attrs.Subresource != "log" && attrs.Verb != "delete"
	})

	checks, err := env.client.CheckPermissions(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument))
	assert.Contains(t, err.Error(), "delete xgboostjobs")
	assert.Contains(t, err.Error(), "get pods/log")
	assert.Len(t, checks, len(requiredAccess()), "every check is reported")

	var denied int
	for _, c := range checks {
		if !c.Allowed {
			denied++
			assert.Equal(t, "denied by test", c.Reason)
		}
	}
	assert.Equal(t, 2, denied)
}
