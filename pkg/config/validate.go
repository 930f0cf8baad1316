package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "probe.tcp_timeout").
	Field string

	// Message is a human-readable error message.
	Message string

	// Fallback says what Repair did with the field, e.g. "using default 5s".
	// Empty for errors returned by Validate.
	Fallback string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	if e.Fallback != "" {
		return fmt.Sprintf("%s: %s; %s", e.Field, e.Message, e.Fallback)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML names so errors match the config file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the tuning values of the configuration and returns a
// ValidationError listing every failing field. Service URLs and tokens are
// deliberately not checked: a malformed URL is something the probes should
// surface, not something that stops them from running.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// Normalize canonicalizes values that have more than one accepted spelling,
// so that "DEBUG" or "warning" pass validation the same way the logger
// accepts them.
func Normalize(cfg *Config) {
	logCfg := &cfg.Telemetry.Logging
	logCfg.Level = strings.ToLower(strings.TrimSpace(logCfg.Level))
	if logCfg.Level == "warning" {
		logCfg.Level = "warn"
	}
	logCfg.Format = strings.ToLower(strings.TrimSpace(logCfg.Format))
}

// Repair normalizes cfg, validates it and resets every failing field to its
// default. Optional features (the CA bundle, the secrets mount, the TLS
// floor) are switched off instead. The returned errors are FieldErrors
// describing what was replaced; cfg always validates afterwards.
//
// The diagnostics must run and the pod must stay up whatever the tuning
// looks like, so callers report these errors rather than stopping on them.
func Repair(cfg *Config) []error {
	Normalize(cfg)

	err := Validate(cfg)
	if err == nil {
		return nil
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		return []error{err}
	}

	problems := make([]error, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fe.Fallback = fallback(cfg, fe.Field)
		problems = append(problems, fe)
	}
	return problems
}

// fallback restores field to a usable value and describes what it did.
func fallback(cfg *Config, field string) string {
	switch field {
	case "probe.tcp_timeout":
		cfg.Probe.TCPTimeout = DefaultTCPTimeout
		return fmt.Sprintf("using default %s", DefaultTCPTimeout)
	case "probe.http_timeout":
		cfg.Probe.HTTPTimeout = DefaultHTTPTimeout
		return fmt.Sprintf("using default %s", DefaultHTTPTimeout)
	case "probe.tls_timeout":
		cfg.Probe.TLSTimeout = DefaultTLSTimeout
		return fmt.Sprintf("using default %s", DefaultTLSTimeout)
	case "probe.dns_timeout":
		cfg.Probe.DNSTimeout = DefaultDNSTimeout
		return fmt.Sprintf("using default %s", DefaultDNSTimeout)
	case "probe.http_port":
		cfg.Probe.HTTPPort = DefaultHTTPPort
		return fmt.Sprintf("using default %d", DefaultHTTPPort)
	case "probe.https_port":
		cfg.Probe.HTTPSPort = DefaultHTTPSPort
		return fmt.Sprintf("using default %d", DefaultHTTPSPort)
	case "probe.server_info_path":
		cfg.Probe.ServerInfoPath = DefaultServerInfoPath
		return fmt.Sprintf("using default %s", DefaultServerInfoPath)
	case "probe.myself_path":
		cfg.Probe.MyselfPath = DefaultMyselfPath
		return fmt.Sprintf("using default %s", DefaultMyselfPath)
	case "probe.tls_min_version":
		cfg.Probe.TLSMinVersion = ""
		return "using the client default"
	case "probe.ca_file":
		cfg.Probe.CAFile = ""
		return "CA bundle skipped"
	case "secrets_dir":
		cfg.SecretsDir = ""
		return "secrets mount skipped"
	case "keepalive.listen_address":
		cfg.KeepAlive.ListenAddress = DefaultListenAddress
		return fmt.Sprintf("using default %s", DefaultListenAddress)
	case "keepalive.body":
		cfg.KeepAlive.Body = DefaultKeepAliveBody
		return "using default body"
	case "telemetry.logging.level":
		cfg.Telemetry.Logging.Level = DefaultLogLevel
		return fmt.Sprintf("using default %s", DefaultLogLevel)
	case "telemetry.logging.format":
		cfg.Telemetry.Logging.Format = DefaultLogFormat
		return fmt.Sprintf("using default %s", DefaultLogFormat)
	default:
		return "left unchanged"
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s (got %v)", fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("must be between 1 and 65535 (got %v)", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got %q)", fe.Param(), fe.Value())
	case "startswith":
		return fmt.Sprintf("must start with %q (got %q)", fe.Param(), fe.Value())
	case "file":
		return fmt.Sprintf("must name an existing file (got %q)", fe.Value())
	case "dir":
		return fmt.Sprintf("must name an existing directory (got %q)", fe.Value())
	case "hostname_port":
		return fmt.Sprintf("must be a host:port address (got %q)", fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
