package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type testRows [][]string

func (r testRows) Header() []string { return []string{"NAME", "PHASE"} }
func (r testRows) Rows() [][]string { return r }

func TestFormat(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())

	assert.Equal(t, FormatYAML, FormatFromPath("job.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("job.json"))
	assert.Equal(t, FormatTable, FormatFromPath("out.txt"))
	assert.Equal(t, FormatJSON, FormatFromPath("noext"))
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{{Name: "test1", Value: 123}, {Name: "test2", Value: 456}}
	require.NoError(t, writer.Serialize(context.Background(), data))

	var result []testConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := []testConfig{{Name: "test1", Value: 123}}
	require.NoError(t, writer.Serialize(context.Background(), data))

	var result []testConfig
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
}

func TestWriter_SerializeTable(t *testing.T) {
	t.Run("flattened", func(t *testing.T) {
		var buf bytes.Buffer
		writer := NewWriter(FormatTable, &buf)

		require.NoError(t, writer.Serialize(context.Background(), testConfig{Name: "test", Value: 1}))
		out := buf.String()
		assert.Contains(t, out, "FIELD")
		assert.Contains(t, out, "Name")
		assert.Contains(t, out, "test")
	})

	t.Run("tabular", func(t *testing.T) {
		var buf bytes.Buffer
		writer := NewWriter(FormatTable, &buf)

		rows := testRows{{"xgb-1", "Running"}, {"xgb-2", "Succeeded"}}
		require.NoError(t, writer.Serialize(context.Background(), rows))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"NAME", "PHASE"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"xgb-2", "Succeeded"}, strings.Fields(lines[2]))
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]string{}))
		assert.Equal(t, "<empty>\n", buf.String())
	})
}

func TestWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("xml"), &buf)
	require.NoError(t, writer.Serialize(context.Background(), testConfig{Name: "x"}))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	assert.Error(t, NewWriter(FormatJSON, &buf).Serialize(ctx, testConfig{}))
	assert.Zero(t, buf.Len())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	w := NewFileWriterOrStdout(FormatJSON, path)
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "file"}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "file"`)

	stdout := NewFileWriterOrStdout(FormatJSON, "  ")
	assert.Nil(t, stdout.closer)
}
