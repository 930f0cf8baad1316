// Package telemetry holds the observability support for egressprobe.
//
// Only structured logging is provided, in the logging subpackage. Log
// records go to stderr so they never interleave with the diagnostic report
// on stdout, and every record passes through a redactor that masks the
// configured personal access tokens.
//
//	logger, err := logging.New(logging.Config{
//	    Level:   cfg.Telemetry.Logging.Level,
//	    Format:  cfg.Telemetry.Logging.Format,
//	    Redact:  true,
//	    Secrets: cfg.Secrets(),
//	})
package telemetry
