// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Masking of configured tokens, Authorization headers and credential keys
//   - Context-aware logging with run IDs, service labels and step numbers
//
// Log records go to stderr by default. The human-readable diagnostic report
// is written separately to stdout by the probe package, and passes through
// the same Redactor so a token can never reach container logs.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:   "info",
//	    Format:  "text",
//	    Redact:  true,
//	    Secrets: cfg.Secrets(),
//	})
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithService(ctx, "JIRA")
//	logger.InfoContext(ctx, "probe finished", "steps", 9)
//
// # Redaction
//
//   - Registered secrets: abcd1234efgh -> [REDACTED]
//   - Bearer headers: Bearer abc.def -> Bearer ***
//   - Sensitive keys ("token", "authorization", ...): value -> abcd***
package logging
