// Package logger provides structured logging for clockschedule-cli.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler selection, global level
//   - context.go: context-carried logger and request ID
//   - redact.go: masking of credentials and session tokens
//
// CLI output meant for the user goes through internal/cli/output; this
// package only writes diagnostics to stderr.
package logger
