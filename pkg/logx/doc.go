// Package logx configures matchwatch's structured logging.
//
// A small wrapper (logx.Logger) on top of zerolog keeps:
//   - Console output readable (bracketed local timestamp + short caller)
//   - File output JSON-structured and append-only
//   - Timestamps in one fixed zone, whatever the host clock zone is
//
// Logging never fails the caller: file write errors are reported on stderr
// and dropped.
package logx
