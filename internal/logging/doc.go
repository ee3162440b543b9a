// Package logging provides structured logging for glowlan.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the transport. It provides both general logging
// functions and specialized functions for datagram-level logging.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (datagram dumps, scan broadcasts)
//   - Info: Normal operations (device registered, controller lifecycle)
//   - Warn: Non-fatal issues (malformed datagrams, unknown models, evictions)
//   - Error: Fatal issues (socket setup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device registered",
//	    zap.String("device_id", "7D:31:C5:0B:1E:AB:CD:EF"),
//	    zap.String("sku", "H6159"),
//	    zap.String("ip", "192.168.1.40"),
//	)
//
// # Datagram Logging
//
// The package provides a datagram helper that emits bounded hex and ascii
// dumps at debug level:
//
//	logging.LogDatagram("received", addr.String(), buf[:n])
//
// # Configuration
//
// CLI commands initialize from the environment so they stay silent unless
// GLOWLAN_LOG_LEVEL is set:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
