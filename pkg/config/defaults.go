package config

import "time"

// Default values for configuration fields.
const (
	// Probe defaults
	DefaultTCPTimeout     = 5 * time.Second
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultTLSTimeout     = 10 * time.Second
	DefaultDNSTimeout     = 10 * time.Second
	DefaultHTTPPort       = 80
	DefaultHTTPSPort      = 443
	DefaultServerInfoPath = "/rest/api/2/serverInfo"
	DefaultMyselfPath     = "/rest/api/2/myself"

	// Keep-alive defaults
	DefaultListenAddress = "0.0.0.0:8080"
	DefaultKeepAliveBody = "AKS Access Test - Check logs for results\n"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Service labels
	DefaultTrackerName = "JIRA"
	DefaultWikiName    = "CONFLUENCE"
)

// DefaultConfig returns a Config populated with default values and no
// service URLs or tokens.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Fields that are
// already set are left untouched.
func ApplyDefaults(cfg *Config) {
	if cfg.Tracker.Name == "" {
		cfg.Tracker.Name = DefaultTrackerName
	}
	if cfg.Wiki.Name == "" {
		cfg.Wiki.Name = DefaultWikiName
	}

	applyProbeDefaults(&cfg.Probe)

	if cfg.KeepAlive.ListenAddress == "" {
		cfg.KeepAlive.ListenAddress = DefaultListenAddress
	}
	if cfg.KeepAlive.Body == "" {
		cfg.KeepAlive.Body = DefaultKeepAliveBody
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
}

func applyProbeDefaults(p *ProbeConfig) {
	if p.TCPTimeout == 0 {
		p.TCPTimeout = DefaultTCPTimeout
	}
	if p.HTTPTimeout == 0 {
		p.HTTPTimeout = DefaultHTTPTimeout
	}
	if p.TLSTimeout == 0 {
		p.TLSTimeout = DefaultTLSTimeout
	}
	if p.DNSTimeout == 0 {
		p.DNSTimeout = DefaultDNSTimeout
	}
	if p.HTTPPort == 0 {
		p.HTTPPort = DefaultHTTPPort
	}
	if p.HTTPSPort == 0 {
		p.HTTPSPort = DefaultHTTPSPort
	}
	if p.ServerInfoPath == "" {
		p.ServerInfoPath = DefaultServerInfoPath
	}
	if p.MyselfPath == "" {
		p.MyselfPath = DefaultMyselfPath
	}
}
