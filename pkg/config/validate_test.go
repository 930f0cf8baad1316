package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_ServiceValuesAreNotChecked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracker.URL = "not a url at all"
	cfg.Tracker.Token = "x"

	if err := Validate(cfg); err != nil {
		t.Errorf("service URL syntax must not be validated, got: %v", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "zero https port",
			mutate:    func(c *Config) { c.Probe.HTTPSPort = 0 },
			wantField: "probe.https_port",
		},
		{
			name:      "port out of range",
			mutate:    func(c *Config) { c.Probe.HTTPPort = 70000 },
			wantField: "probe.http_port",
		},
		{
			name:      "negative tcp timeout",
			mutate:    func(c *Config) { c.Probe.TCPTimeout = -time.Second },
			wantField: "probe.tcp_timeout",
		},
		{
			name:      "relative api path",
			mutate:    func(c *Config) { c.Probe.MyselfPath = "rest/api/2/myself" },
			wantField: "probe.myself_path",
		},
		{
			name:      "listen address without port",
			mutate:    func(c *Config) { c.KeepAlive.ListenAddress = "0.0.0.0" },
			wantField: "keepalive.listen_address",
		},
		{
			name:      "unsupported tls version",
			mutate:    func(c *Config) { c.Probe.TLSMinVersion = "1.4" },
			wantField: "probe.tls_min_version",
		},
		{
			name:      "missing ca file",
			mutate:    func(c *Config) { c.Probe.CAFile = "/nonexistent/ca.pem" },
			wantField: "probe.ca_file",
		},
		{
			name:      "unknown log format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Probe.HTTPPort = 0
	cfg.Probe.HTTPSPort = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(validationErr.Errors))
	}
	if !strings.Contains(validationErr.Error(), "validation failed with 2 errors") {
		t.Errorf("error message should mention multiple errors: %s", validationErr.Error())
	}
	if n := strings.Count(validationErr.Error(), "configuration validation failed"); n != 1 {
		t.Errorf("summary prefix appears %d times: %s", n, validationErr.Error())
	}
}

func TestRepair_ResetsFailingFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Probe.HTTPSPort = 0
	cfg.Probe.DNSTimeout = -time.Second
	cfg.Probe.ServerInfoPath = "serverInfo"
	cfg.Probe.TLSMinVersion = "1.4"
	cfg.Probe.CAFile = "/nonexistent/ca.pem"
	cfg.SecretsDir = "/nonexistent/secrets"
	cfg.KeepAlive.ListenAddress = "0.0.0.0"
	cfg.Telemetry.Logging.Format = "xml"

	problems := Repair(cfg)
	if len(problems) != 8 {
		t.Fatalf("expected 8 problems, got %d: %v", len(problems), problems)
	}
	for _, p := range problems {
		var fe FieldError
		if !errors.As(p, &fe) {
			t.Fatalf("expected FieldError, got %T", p)
		}
		if fe.Fallback == "" || fe.Fallback == "left unchanged" {
			t.Errorf("%s: no fallback applied", fe.Field)
		}
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("repaired config should validate, got %v", err)
	}

	want := DefaultConfig()
	if cfg.Probe != want.Probe {
		t.Errorf("Probe = %+v, want defaults %+v", cfg.Probe, want.Probe)
	}
	if cfg.SecretsDir != "" {
		t.Errorf("SecretsDir = %q, want cleared", cfg.SecretsDir)
	}
	if cfg.KeepAlive.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q", cfg.KeepAlive.ListenAddress)
	}
	if cfg.Telemetry.Logging.Format != DefaultLogFormat {
		t.Errorf("Format = %q", cfg.Telemetry.Logging.Format)
	}
}

func TestRepair_ValidConfigUntouched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Telemetry.Logging.Level = "WARNING"

	if problems := Repair(cfg); len(problems) != 0 {
		t.Fatalf("Repair() = %v, want none", problems)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Level = %q, want normalized warn", cfg.Telemetry.Logging.Level)
	}
}

func TestFieldError_Error(t *testing.T) {
	err := FieldError{Field: "probe.tcp_timeout", Message: "must be greater than 0"}
	if got := err.Error(); got != "probe.tcp_timeout: must be greater than 0" {
		t.Errorf("Error() = %q", got)
	}

	err.Fallback = "using default 5s"
	if got := err.Error(); got != "probe.tcp_timeout: must be greater than 0; using default 5s" {
		t.Errorf("Error() with fallback = %q", got)
	}
}
