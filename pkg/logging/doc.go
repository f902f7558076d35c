// Package logging provides structured logging utilities for the exporter.
//
// # Overview
//
// This package wraps the standard library slog package with exporter defaults
// so every component logs the same way. It supports environment-based log
// level configuration, module/version context injection, and source location
// tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: raw command output and per-LUN details, with source location
//   - INFO: lifecycle messages (default)
//   - WARN/WARNING: skipped LUN entries, empty LUN lists, killed commands
//   - ERROR: failed refresh cycles and fatal startup conditions
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("multipath-exporter", version, "info")
//	    slog.Info("started", "port", 9684)
//	}
//
// Converting standard library logger (used for net/http ErrorLog):
//
//	stdLogger := logging.NewLogLogger(slog.LevelError, false)
//
// # Environment Configuration
//
// When no explicit level is given, LOG_LEVEL controls verbosity:
//
//	LOG_LEVEL=debug multipath-exporter
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "WARN",
//	    "msg": "no LUNs found",
//	    "module": "multipath-exporter",
//	    "version": "v1.0.0"
//	}
package logging
