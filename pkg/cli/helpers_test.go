package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/xgbjob-client/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{name: "valid yaml format", format: "yaml", wantFormat: serializer.FormatYAML},
		{name: "valid json format", format: "json", wantFormat: serializer.FormatJSON},
		{name: "valid table format", format: "table", wantFormat: serializer.FormatTable},
		{name: "invalid format xml", format: "xml", wantErr: true},
		{name: "empty format", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestReplicaSelector(t *testing.T) {
	var got struct {
		master bool
		rtype  string
		index  *int
	}

	cmd := logsCmd()
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		sel := replicaSelector(c)
		got.master, got.rtype, got.index = sel.Master, sel.ReplicaType, sel.ReplicaIndex
		return nil
	}

	if err := cmd.Run(context.Background(), []string{"logs", "--master=false", "--replica-type", "Worker", "--replica-index", "0", "xgb-1"}); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}
	if got.master {
		t.Errorf("expected master=false")
	}
	if got.rtype != "Worker" {
		t.Errorf("expected replica type Worker, got %q", got.rtype)
	}
	if got.index == nil || *got.index != 0 {
		t.Errorf("expected replica index 0, got %v", got.index)
	}
}

func TestClusterClients(t *testing.T) {
	kubeconfig := `apiVersion: v1
kind: Config
clusters:
- name: local
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: ml
  context:
    cluster: local
    namespace: ml
current-context: ml
`
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(kubeconfig), 0o600))
	t.Setenv("KUBECONFIG", path)

	explicit, err := clusterClients(path, "ml")
	require.NoError(t, err)
	assert.Equal(t, "ml", explicit.Namespace)

	shared, err := clusterClients("", "")
	require.NoError(t, err)
	again, err := clusterClients("", "")
	require.NoError(t, err)
	assert.Same(t, shared, again)
	assert.NotSame(t, explicit, shared)
}
