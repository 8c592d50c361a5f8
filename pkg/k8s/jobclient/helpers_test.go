package jobclient

import (
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/xgbjob-client/pkg/logging"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

const (
	testNamespace = "ml"
	testJobName   = "xgb-1"
)

type testEnv struct {
	client  *Client
	dynamic *dynamicfake.FakeDynamicClient
	kube    *fake.Clientset
}

func newTestEnv(t *testing.T, objects ...runtime.Object) *testEnv {
	t.Helper()

	var jobs, pods []runtime.Object
	for _, obj := range objects {
		if _, ok := obj.(*corev1.Pod); ok {
			pods = append(pods, obj)
			continue
		}
		jobs = append(jobs, obj)
	}

	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
		map[schema.GroupVersionResource]string{xgbjob.GroupVersionResource(): xgbjob.ListKind},
		jobs...)
	kube := fake.NewClientset(pods...)

	c := New(NewDynamicTransport(dyn), kube,
		WithDefaultNamespace(testNamespace),
		WithLogger(logging.Discard()),
		WithRequestTimeout(5*time.Second),
	)
	return &testEnv{client: c, dynamic: dyn, kube: kube}
}

func testJob(name string, conditions ...xgbjob.ConditionType) *unstructured.Unstructured {
	j := xgbjob.NewJob(name, testNamespace, map[string]any{
		"xgbReplicaSpecs": map[string]any{
			"Master": map[string]any{"replicas": 1},
		},
	})
	setConditions(j.AsUnstructured(), conditions...)
	return j.AsUnstructured()
}

func setConditions(u *unstructured.Unstructured, conditions ...xgbjob.ConditionType) {
	if len(conditions) == 0 {
		return
	}
	items := make([]any, 0, len(conditions))
	for _, ct := range conditions {
		items = append(items, map[string]any{
			"type":               string(ct),
			"status":             "True",
			"lastTransitionTime": "2025-01-15T10:30:00Z",
		})
	}
	_ = unstructured.SetNestedSlice(u.Object, items, "status", "conditions")
}

func testPod(name string, labels map[string]string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: testNamespace,
			Labels:    labels,
		},
	}
}
