// Package logger provides structured logging for podlink.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler setup, package-level default
//   - redact.go: masking of credentials in log attributes
//
// Features:
//
//   - JSON and text output formats
//   - Runtime level changes
//   - Credentials in DSNs, tokens and passwords never reach the output
package logger
