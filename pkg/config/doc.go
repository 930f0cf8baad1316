// Package config provides configuration loading for egressprobe.
//
// The four values that drive the diagnostics come from the environment
// (JIRA_URL, JIRA_PERSONAL_TOKEN, CONFLUENCE_URL, CONFLUENCE_PERSONAL_TOKEN).
// Everything else (timeouts, ports, the keep-alive address, logging) has a
// default and can be tuned from an optional YAML file or EGRESSPROBE_*
// variables.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file, when one is given and exists
//  3. EGRESSPROBE_* environment overrides
//  4. Repair: a field that fails validation falls back to its default
//  5. Service variables from the environment, then from secrets_dir
//
// Loading never stops the run. Problems are returned alongside the Config
// so the report can list them.
//
// When secrets_dir (EGRESSPROBE_SECRETS_DIR) names a mounted Kubernetes
// Secret, service variables missing from the environment are read from files
// named after them, e.g. <dir>/JIRA_PERSONAL_TOKEN.
//
// An optional dotenv file can be loaded into the environment first with
// LoadEnvFile; variables already set by the orchestrator take precedence.
//
// # Example Configuration
//
//	probe:
//	  tcp_timeout: 5s
//	  http_timeout: 30s
//	  tls_timeout: 10s
//	keepalive:
//	  listen_address: "0.0.0.0:8080"
//	telemetry:
//	  logging:
//	    level: debug
//	    format: json
//
// The returned *Config is treated as immutable and is passed explicitly to
// the runner and the keep-alive server.
package config
