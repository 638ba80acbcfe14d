// Package logging provides structured logging for the xComfort SHC client.
//
// This package wraps Go's standard log/slog package so every component
// of the client logs in the same shape, with the same default fields.
//
// # Features
//
//   - JSON output for machine ingestion (default)
//   - Text output for terminals
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("session established", "base_url", cfg.Gateway.BaseURL)
//	logger.Error("rpc failed", "method", method, "error", err)
//
// Embedders that want the client silent should pass logging.Discard().
//
// # Security
//
// Never log passwords, remote keys, or session tokens. Log derived
// facts instead (token length, expiry, cookie name).
package logging
