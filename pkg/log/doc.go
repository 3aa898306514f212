// Package log provides structured wire-activity logging for board connections.
//
// This package defines the Logger interface and Event types for capturing
// board-level events at multiple layers (transport, protocol, device).
// It is separate from operational logging (slog) - wire capture provides
// a complete machine-readable trace of every pin operation for debugging
// and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/board/pins.plog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/board/pins.plog"),
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: serial link lifecycle
//   - Protocol: pin configure/read/write commands (PinOpEvent, ServoConfigEvent)
//   - Device: facade-level state
//
// Connection state changes and errors have dedicated event types.
//
// # File Format
//
// Log files use CBOR encoding with .plog extension. The pinlog CLI tool
// provides viewing, filtering, and stats capabilities.
package log
