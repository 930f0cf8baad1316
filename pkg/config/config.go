package config

import "time"

// Config is the root configuration structure for egressprobe.
// It is built once by Load and passed explicitly to the components that need
// it; nothing mutates it afterwards.
type Config struct {
	// Tracker is the issue-tracking service (Jira). Its URL and token come
	// from JIRA_URL and JIRA_PERSONAL_TOKEN.
	Tracker ServiceConfig `yaml:"tracker"`

	// Wiki is the wiki service (Confluence). Its URL and token come from
	// CONFLUENCE_URL and CONFLUENCE_PERSONAL_TOKEN.
	Wiki ServiceConfig `yaml:"wiki"`

	// Probe contains timeouts, ports and API paths used by the diagnostic
	// runner.
	Probe ProbeConfig `yaml:"probe"`

	// KeepAlive contains configuration for the HTTP responder that keeps the
	// pod running after diagnostics complete.
	KeepAlive KeepAliveConfig `yaml:"keepalive"`

	// Telemetry contains logging configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// SecretsDir is a mounted Kubernetes Secret. Service variables the
	// environment leaves empty are read from files named after them.
	SecretsDir string `yaml:"secrets_dir" validate:"omitempty,dir"`
}

// ServiceConfig describes one probed service.
type ServiceConfig struct {
	// Name is the label printed in section headers (e.g. "JIRA").
	Name string `yaml:"name"`

	// URL is the configured base URL. It is not validated; an empty value
	// means the variable was absent.
	URL string `yaml:"url"`

	// Token is the personal access token sent as a bearer token by the
	// authenticated probe.
	Token string `yaml:"token"`
}

// Enabled reports whether both the URL and the token are present.
// Probes for a service are attempted only when this is true.
func (s ServiceConfig) Enabled() bool {
	return s.URL != "" && s.Token != ""
}

// ProbeConfig contains tuning for the diagnostic probes.
type ProbeConfig struct {
	// TCPTimeout bounds each raw TCP connect attempt.
	// Default: 5s
	TCPTimeout time.Duration `yaml:"tcp_timeout" validate:"gt=0"`

	// HTTPTimeout bounds each HTTP-layer request including reading the body.
	// Default: 30s
	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gt=0"`

	// TLSTimeout bounds the certificate inspection handshake.
	// Default: 10s
	TLSTimeout time.Duration `yaml:"tls_timeout" validate:"gt=0"`

	// DNSTimeout bounds the single name resolution attempt.
	// Default: 10s
	DNSTimeout time.Duration `yaml:"dns_timeout" validate:"gt=0"`

	// HTTPPort is the plain HTTP port probed by the TCP check and the
	// unauthenticated HTTP request.
	// Default: 80
	HTTPPort int `yaml:"http_port" validate:"min=1,max=65535"`

	// HTTPSPort is the TLS port probed by the TCP check, the HTTPS requests and
	// the certificate inspection.
	// Default: 443
	HTTPSPort int `yaml:"https_port" validate:"min=1,max=65535"`

	// ServerInfoPath is the unauthenticated endpoint requested on the bare
	// hostname.
	// Default: /rest/api/2/serverInfo
	ServerInfoPath string `yaml:"server_info_path" validate:"required,startswith=/"`

	// MyselfPath is the authenticated endpoint requested under the configured
	// base URL.
	// Default: /rest/api/2/myself
	MyselfPath string `yaml:"myself_path" validate:"required,startswith=/"`

	// TLSMinVersion is the lowest protocol version the HTTPS probes offer
	// ("1.0" to "1.3"). Empty keeps the Go client default.
	TLSMinVersion string `yaml:"tls_min_version" validate:"omitempty,oneof=1.0 1.1 1.2 1.3"`

	// CAFile is an optional PEM bundle trusted in addition to the system
	// roots by the verified probes.
	CAFile string `yaml:"ca_file" validate:"omitempty,file"`
}

// KeepAliveConfig contains configuration for the keep-alive responder.
type KeepAliveConfig struct {
	// Disabled skips the responder so the process exits after diagnostics.
	// Intended for running the tool outside a cluster.
	Disabled bool `yaml:"disabled"`

	// ListenAddress is the address the responder binds.
	// Default: "0.0.0.0:8080"
	ListenAddress string `yaml:"listen_address" validate:"required,hostname_port"`

	// Body is the fixed plaintext body returned for every GET.
	Body string `yaml:"body" validate:"required"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig contains structured logging settings. Structured logs go to
// stderr; the human-readable probe report goes to stdout.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Default: "info"
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is the log output format.
	// Default: "text"
	Format string `yaml:"format" validate:"oneof=json text console"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// Services returns the probed services in run order: tracker, then wiki.
func (c *Config) Services() []ServiceConfig {
	return []ServiceConfig{c.Tracker, c.Wiki}
}

// Secrets returns the non-empty tokens so the logger can mask them.
func (c *Config) Secrets() []string {
	var secrets []string
	for _, svc := range c.Services() {
		if svc.Token != "" {
			secrets = append(secrets, svc.Token)
		}
	}
	return secrets
}
