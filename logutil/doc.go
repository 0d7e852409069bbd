// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logutil provides the structured logger used by proclist, built on
// log/slog.
//
// # Basic Usage
//
//	// Initialize logging (typically in main.go)
//	logutil.SetupLogger(debug, structured)
//
//	logutil.Debug("resolving names", "count", len(pids))
//	logutil.Warn("process not inspectable", "pid", pid, "error", err)
//
// # Debug Mode
//
// Debug logging is enabled by passing debug=true to SetupLogger or by setting
// PROCLIST_DEBUG=true. Other thresholds are set with SetLevel:
//
//	logutil.SetLevel(logutil.ParseLevel("warn"))
//
// # Structured Logging
//
// With structured=true logs are JSON:
//
//	{"time":"2026-01-15T10:30:00Z","level":"INFO","msg":"snapshot taken","processes":212}
//
// Otherwise they use slog's text format:
//
//	time=2026-01-15T10:30:00Z level=INFO msg="snapshot taken" processes=212
package logutil
