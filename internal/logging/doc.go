// Package logging provides structured logging for the SCIM service.
//
// # Overview
//
// The logging package provides a structured logging interface with support for:
//
//   - Multiple log levels (debug, info, warn, error)
//   - Text and JSON output formats
//   - Request ID tracking for distributed tracing
//   - Field-based contextual logging
//
// # Creating a Logger
//
// Create a logger with configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/scim/scim.log",
//	})
//
// Or use defaults:
//
//	logger := logging.NewDefault() // Info level, text format, stdout
//
// For testing, use a no-op logger:
//
//	logger := logging.NewNop()
//
// # Log Levels
//
// Four log levels are supported:
//
//	logger.Debug("detailed debugging info", "key", "value")
//	logger.Info("informational message", "key", "value")
//	logger.Warn("warning message", "key", "value")
//	logger.Error("error message", "key", "value")
//
// Parse level from string:
//
//	level := logging.ParseLevel("debug") // Returns LevelDebug
//
// # Structured Logging
//
// Add key-value pairs to log entries:
//
//	logger.Info("patch applied",
//	    "resourceId", "2819c223-7f76-453a-919d-413861904646",
//	    "op", "replace",
//	    "duration_ms", 2,
//	)
//
// Output (JSON format):
//
//	{
//	    "ts": "2026-02-18T10:30:00Z",
//	    "level": "info",
//	    "msg": "patch applied",
//	    "resourceId": "2819c223-7f76-453a-919d-413861904646",
//	    "op": "replace",
//	    "duration_ms": 2
//	}
//
// # Request ID Tracking
//
// Add request ID for tracing:
//
//	requestID := logging.GenerateRequestID()
//	reqLogger := logger.WithRequestID(requestID)
//
//	reqLogger.Info("processing request") // Includes request_id field
//
// # Contextual Fields
//
// Create loggers with persistent fields:
//
//	reqLogger := logger.WithFields(
//	    "client", r.RemoteAddr,
//	    "resourceType", "User",
//	)
//
//	// All subsequent logs include these fields
//	reqLogger.Info("patch request received")
//	reqLogger.Info("patch applied")
//
// # Output Formats
//
// Text format (human-readable):
//
//	2026-02-18T10:30:00Z [info] patch applied resourceId=2819c223-... duration_ms=2
//
// JSON format (machine-parseable):
//
//	{"ts":"2026-02-18T10:30:00Z","level":"info","msg":"patch applied",...}
//
// # Output Destinations
//
// Configure output destination:
//
//	logging.Config{Output: "stdout"}            // Standard output
//	logging.Config{Output: "stderr"}            // Standard error
//	logging.Config{Output: "/var/log/scim.log"} // File path
package logging
