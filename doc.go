// Package rotolog provides a leveled console and file logger with automatic
// size-based rotation, archive retention, and stream recovery.
//
// Features:
//   - Console and file sinks, each independently switchable
//   - Automatic log file rotation based on size with timestamped archives
//   - Archive retention keeping the most recent N rotated files
//   - Write buffering across the rotation boundary so no line is lost
//   - Indefinite reopen retry after a broken file stream
//   - Hierarchical named sub-loggers sharing one underlying sink
//   - Console-only degraded mode when no file is configured
//   - Thread-safe operations
//
// Loggers are explicit instances created with New; the package installs no
// ambient global state.
package rotolog
