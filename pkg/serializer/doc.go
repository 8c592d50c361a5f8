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

// Package serializer renders command output and reads job manifests.
//
// Output is written as JSON, YAML, or a table:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, rows); err != nil {
//		return err
//	}
//
// Values implementing Tabular control their own table columns; anything
// else is flattened into FIELD/VALUE pairs.
//
// Manifests are read from a file path, "-" for stdin, or an http(s) URL.
// YAML and JSON are both accepted, and multi-document YAML yields one JSON
// document per object:
//
//	docs, err := serializer.ReadManifests(ctx, "job.yaml")
package serializer
