package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	authv1 "k8s.io/api/authorization/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	apperrors "github.com/NVIDIA/xgbjob-client/pkg/errors"
	"github.com/NVIDIA/xgbjob-client/pkg/k8s/jobclient"
	"github.com/NVIDIA/xgbjob-client/pkg/logging"
	"github.com/NVIDIA/xgbjob-client/pkg/xgbjob"
)

const (
	testNamespace = "ml"
	testJobName   = "xgb-1"
)

const validManifest = `apiVersion: xgboostjob.kubeflow.org/v1alpha1
kind: XGBoostJob
metadata:
  name: xgb-1
spec:
  xgbReplicaSpecs:
    Master:
      replicas: 1
      template:
        spec:
          containers:
          - name: xgboostjob
            image: docker.io/kubeflow/xgboost-dist-iris:1.0
    Worker:
      replicas: 2
      template:
        spec:
          containers:
          - name: xgboostjob
            image: docker.io/kubeflow/xgboost-dist-iris:1.0
`

type fakeCluster struct {
	dynamic *dynamicfake.FakeDynamicClient
	kube    *fake.Clientset
}

// useFakeCluster points the CLI at in-memory clients for the test's duration.
func useFakeCluster(t *testing.T, objects ...runtime.Object) *fakeCluster {
	t.Helper()

	var jobs, pods []runtime.Object
	for _, obj := range objects {
		if _, ok := obj.(*corev1.Pod); ok {
			pods = append(pods, obj)
			continue
		}
		jobs = append(jobs, obj)
	}

	fc := &fakeCluster{
		dynamic: dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
			map[schema.GroupVersionResource]string{xgbjob.GroupVersionResource(): xgbjob.ListKind},
			jobs...),
		kube: fake.NewClientset(pods...),
	}

	orig := clientFactory
	clientFactory = func(_ context.Context, _ *cli.Command, opts ...jobclient.Option) (*jobclient.Client, error) {
		base := []jobclient.Option{
			jobclient.WithDefaultNamespace(testNamespace),
			jobclient.WithLogger(logging.Discard()),
		}
		return jobclient.New(jobclient.NewDynamicTransport(fc.dynamic), fc.kube, append(base, opts...)...), nil
	}
	t.Cleanup(func() { clientFactory = orig })
	return fc
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.Writer = &out
	root.ErrWriter = io.Discard

	err := root.Run(context.Background(), append([]string{name, "--log-level", "error"}, args...))
	return out.String(), err
}

func testJob(name string, conditions ...xgbjob.ConditionType) *unstructured.Unstructured {
	j := xgbjob.NewJob(name, testNamespace, map[string]any{})
	if len(conditions) > 0 {
		items := make([]any, 0, len(conditions))
		for _, ct := range conditions {
			items = append(items, map[string]any{"type": string(ct), "status": "True"})
		}
		_ = unstructured.SetNestedSlice(j.Object, items, "status", "conditions")
	}
	return j.AsUnstructured()
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCreateCmd(t *testing.T) {
	fc := useFakeCluster(t)

	out, err := runCLI(t, "create", "-f", writeManifest(t, validManifest), "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "XGBoostJobList"`)
	assert.Contains(t, out, `"name": "xgb-1"`)

	got, err := fc.dynamic.Resource(xgbjob.GroupVersionResource()).Namespace(testNamespace).
		Get(context.Background(), testJobName, metav1.GetOptions{})
	require.NoError(t, err)
	replicas, found, err := unstructured.NestedInt64(got.Object, "spec", "xgbReplicaSpecs", "Worker", "replicas")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), replicas)
}

func TestCreateCmd_Validation(t *testing.T) {
	noMaster := `apiVersion: xgboostjob.kubeflow.org/v1alpha1
kind: XGBoostJob
metadata:
  name: xgb-1
spec:
  xgbReplicaSpecs:
    Worker:
      template:
        spec:
          containers:
          - name: xgboostjob
            image: kubeflow/xgboost:latest
`
	useFakeCluster(t)
	path := writeManifest(t, noMaster)

	_, err := runCLI(t, "create", "-f", path)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument), "got %v", err)

	_, err = runCLI(t, "create", "-f", path, "--skip-validation")
	assert.NoError(t, err)
}

func TestCreateCmd_Conflict(t *testing.T) {
	useFakeCluster(t, testJob(testJobName))

	_, err := runCLI(t, "create", "-f", writeManifest(t, validManifest))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict), "got %v", err)
}

func TestGetCmd(t *testing.T) {
	useFakeCluster(t, testJob(testJobName, xgbjob.ConditionCreated, xgbjob.ConditionRunning))

	out, err := runCLI(t, "get", testJobName)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, testJobName)
	assert.Contains(t, out, "Running")

	_, err = runCLI(t, "get", "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	_, err = runCLI(t, "get")
	assert.Error(t, err)
}

func TestListCmd(t *testing.T) {
	useFakeCluster(t, testJob("a"), testJob("b", xgbjob.ConditionSucceeded))

	out, err := runCLI(t, "list", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: XGBoostJobList")
	assert.Contains(t, out, "name: a")
	assert.Contains(t, out, "name: b")

	out, err = runCLI(t, "-n", "empty", "list")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1, "header only")
}

func TestPatchCmd(t *testing.T) {
	useFakeCluster(t, testJob(testJobName))

	out, err := runCLI(t, "patch", "--patch", `{"metadata":{"labels":{"team":"ranking"}}}`, "--format", "json", testJobName)
	require.NoError(t, err)
	assert.Contains(t, out, `"team": "ranking"`)

	_, err = runCLI(t, "patch", testJobName)
	assert.Error(t, err)
}

func TestDeleteCmd(t *testing.T) {
	useFakeCluster(t, testJob(testJobName))

	out, err := runCLI(t, "delete", testJobName, "missing")
	require.NoError(t, err)
	assert.Contains(t, out, `"xgb-1" deleted`)

	_, err = runCLI(t, "delete", "--strict", "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestWaitCmd(t *testing.T) {
	useFakeCluster(t,
		testJob(testJobName, xgbjob.ConditionRunning, xgbjob.ConditionSucceeded),
		testJob("failed", xgbjob.ConditionRunning, xgbjob.ConditionFailed),
	)

	out, err := runCLI(t, "wait", "--timeout", "1s", "--interval", "10ms", testJobName)
	require.NoError(t, err)
	assert.Contains(t, out, "Succeeded")

	_, err = runCLI(t, "wait", "--timeout", "1s", "failed")
	assert.NoError(t, err, "a failed job is a finished wait")

	_, err = runCLI(t, "wait", "--timeout", "1s", "--fail-on-failure", "failed")
	assert.Error(t, err)

	_, err = runCLI(t, "wait", "--for", "Restarting", "--timeout", "30ms", "--interval", "10ms", testJobName)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = runCLI(t, "wait", "--for", "Bogus", testJobName)
	assert.Error(t, err)
}

func TestStatusCmd(t *testing.T) {
	fc := useFakeCluster(t, testJob(testJobName, xgbjob.ConditionCreated, xgbjob.ConditionRunning), testJob("new"))

	out, err := runCLI(t, "status", "--format", "yaml", testJobName)
	require.NoError(t, err)
	assert.Contains(t, out, "phase: Running")
	assert.Contains(t, out, "namespace: ml")

	var gets int
	for _, action := range fc.dynamic.Actions() {
		if action.GetVerb() == "get" {
			gets++
		}
	}
	assert.Equal(t, 1, gets, "status is read in a single request")

	_, err = runCLI(t, "status", "new")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestLogsCmd(t *testing.T) {
	master := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{
		Name:      "xgb-1-master-0",
		Namespace: testNamespace,
		Labels:    xgbjob.LabelsFor(testJobName, xgbjob.ReplicaSelector{Master: true, ReplicaType: "Master"}),
	}}
	worker := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{
		Name:      "xgb-1-worker-0",
		Namespace: testNamespace,
		Labels:    xgbjob.LabelsFor(testJobName, xgbjob.ReplicaSelector{ReplicaType: "Worker"}),
	}}
	useFakeCluster(t, master, worker)

	out, err := runCLI(t, "logs", testJobName)
	require.NoError(t, err)
	assert.Equal(t, "fake logs\n", out)

	out, err = runCLI(t, "logs", "--master=false", testJobName)
	require.NoError(t, err)
	assert.Contains(t, out, "==> xgb-1-master-0 <==")
	assert.Contains(t, out, "==> xgb-1-worker-0 <==")

	out, err = runCLI(t, "logs", "--master=false", "--replica-type", "worker", "--follow", testJobName)
	require.NoError(t, err)
	assert.Equal(t, "[xgb-1-worker-0] fake logs\n", out)

	_, err = runCLI(t, "logs", "absent")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestParseConditions(t *testing.T) {
	got, err := parseConditions([]string{"running", "SUCCEEDED"})
	require.NoError(t, err)
	assert.Equal(t, []xgbjob.ConditionType{xgbjob.ConditionRunning, xgbjob.ConditionSucceeded}, got)

	_, err = parseConditions([]string{"done"})
	assert.Error(t, err)

	_, err = parseConditions(nil)
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(apperrors.New(apperrors.ErrCodeTimeout, "slow")))
	assert.Equal(t, 1, exitCode(apperrors.New(apperrors.ErrCodeNotFound, "gone")))
	assert.Equal(t, 1, exitCode(assert.AnError))
}

func TestCheckAccessCmd(t *testing.T) {
	fc := useFakeCluster(t)
	fc.kube.PrependReactor("create", "selfsubjectaccessreviews", func(action k8stesting.Action) (bool, runtime.Object, error) {
		review := action.(k8stesting.CreateAction).GetObject().(*authv1.SelfSubjectAccessReview).DeepCopy()
		review.Status.Allowed = review.Spec.ResourceAttributes.Verb != "watch"
		return true, review, nil
	})

	out, err := runCLI(t, "check-access")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch xgboostjobs")
	assert.Contains(t, out, "ALLOWED")
	assert.Contains(t, out, "pods/log")
}
