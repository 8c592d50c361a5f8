package serializer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `apiVersion: xgboostjob.kubeflow.org/v1alpha1
kind: XGBoostJob
metadata:
  name: xgb-1
spec:
  xgbReplicaSpecs:
    Master:
      replicas: 1
---
# comment only
---
apiVersion: xgboostjob.kubeflow.org/v1alpha1
kind: XGBoostJob
metadata:
  name: xgb-2
`

func TestDecodeManifests(t *testing.T) {
	docs, err := DecodeManifests([]byte(testManifest))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{
		"apiVersion": "xgboostjob.kubeflow.org/v1alpha1",
		"kind": "XGBoostJob",
		"metadata": {"name": "xgb-1"},
		"spec": {"xgbReplicaSpecs": {"Master": {"replicas": 1}}}
	}`, string(docs[0]))

	jsonDocs, err := DecodeManifests([]byte(`{"kind":"XGBoostJob","metadata":{"name":"j"}}`))
	require.NoError(t, err)
	assert.Len(t, jsonDocs, 1)
}

func TestDecodeManifests_Errors(t *testing.T) {
	_, err := DecodeManifests([]byte(""))
	assert.Error(t, err)

	_, err = DecodeManifests([]byte("a: [unclosed"))
	assert.Error(t, err)
}

func TestReadManifests_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o600))

	docs, err := ReadManifests(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = ReadManifests(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ReadManifests(context.Background(), "")
	assert.Error(t, err)
}

func TestReadManifests_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job.yaml" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, HTTPReaderUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(testManifest))
	}))
	defer server.Close()

	docs, err := ReadManifests(context.Background(), server.URL+"/job.yaml")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = ReadManifests(context.Background(), server.URL+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPReader_Options(t *testing.T) {
	client := &http.Client{}
	r := NewHTTPReader(WithClient(client), WithUserAgent("custom"))
	assert.Same(t, client, r.Client)
	assert.Equal(t, "custom", r.UserAgent)

	_, err := r.Read(context.Background(), "")
	assert.Error(t, err)
}
