// Package logging provides structured logging for the hearth daemon and CLI.
//
// This package wraps zap with convenience functions for the logging patterns
// used throughout the project: general leveled logging plus device-exchange
// helpers that attach the command name, session state, and timing to each
// entry.
//
// # Configuration
//
// Logging is silent by default so the CLI stays clean. Set HEARTH_LOG_LEVEL
// (debug, info, warn, error) or call Initialize with an explicit level:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Device Logging
//
// Protocol work uses the specialized helpers:
//
//	logging.LogSession(addr, "connecting")
//	logging.LogExchange(addr, "query_status", elapsed, len(resp))
//	logging.LogRawBytes("response frame", frame)
//
// LogRawBytes emits hex and ASCII dumps at debug level, capped at 256 bytes.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
