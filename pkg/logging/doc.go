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

// Package logging configures log/slog for the XGBoostJob client.
//
// Logs are JSON records on stderr tagged with the module name and version.
// The level comes from LOG_LEVEL (or --log-level on the CLI); debug records
// also carry their source location.
//
// # Levels
//
// Accepted names, case-insensitive: debug, info (default), warn/warning, error.
//
// # Usage
//
// Binaries install the default logger once, early in main:
//
//	logging.SetDefaultStructuredLoggerWithLevel("xgbjob", version, "info")
//
// Library code takes a logger instead of using a global:
//
//	logger := logging.NewStructuredLogger("xgbjob", version, "debug")
//	c := jobclient.New(transport, kube, jobclient.WithLogger(logger))
//
// A record looks like:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "job created",
//	    "module": "xgbjob",
//	    "version": "v1.0.0",
//	    "name": "xgb-1",
//	    "namespace": "ml"
//	}
//
// Tests pass Discard() to silence output.
package logging
