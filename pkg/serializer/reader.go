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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StdinPath selects standard input as the manifest source.
const StdinPath = "-"

// ReadManifests loads path and returns each contained object as a JSON
// document. path may be a file, StdinPath, or an http(s) URL.
func ReadManifests(ctx context.Context, path string) ([][]byte, error) {
	data, err := readSource(ctx, path)
	if err != nil {
		return nil, err
	}
	docs, err := DecodeManifests(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return docs, nil
}

func readSource(ctx context.Context, path string) ([]byte, error) {
	switch {
	case path == "":
		return nil, fmt.Errorf("manifest path is empty")
	case path == StdinPath:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest from stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return NewHTTPReader().Read(ctx, path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open manifest: %w", err)
		}
		return data, nil
	}
}

// DecodeManifests splits YAML (or JSON) input into one JSON document per
// non-empty object. Re-encoding as JSON lets callers decode with the
// Kubernetes JSON scheme, which keeps integers as int64.
func DecodeManifests(data []byte) ([][]byte, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var docs [][]byte
	for i := 0; ; i++ {
		var obj map[string]any
		err := decoder.Decode(&obj)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if len(obj) == 0 {
			continue
		}

		doc, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("document %d: failed to convert to JSON: %w", i, err)
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no objects found")
	}
	return docs, nil
}
