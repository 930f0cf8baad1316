package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mercator-hq/egressprobe/pkg/security/secrets"
)

// Environment variables that carry the service endpoints and tokens.
const (
	EnvTrackerURL   = "JIRA_URL"
	EnvTrackerToken = "JIRA_PERSONAL_TOKEN"
	EnvWikiURL      = "CONFLUENCE_URL"
	EnvWikiToken    = "CONFLUENCE_PERSONAL_TOKEN"
)

// Load builds the configuration. The loading sequence is:
//  1. Default values
//  2. Values from the YAML file at path, if path is non-empty and the file exists
//  3. EGRESSPROBE_* environment overrides
//  4. Repair: fields that fail validation fall back to their defaults
//  5. Service variables, from the environment first and then SecretsDir
//
// Load never fails. The diagnostics have to run with whatever configuration
// the pod was given, so every problem found along the way (an unreadable
// file, an unparsable override, an invalid field, an unreadable secret) is
// returned for the caller to report and the affected value is left at its
// default. A missing file is not a problem: in a pod the configuration
// usually comes from the environment alone.
func Load(path string) (*Config, []error) {
	cfg := &Config{}
	var problems []error

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through with an empty config
		case err != nil:
			problems = append(problems, fmt.Errorf("failed to read configuration file %q, using defaults: %w", path, err))
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				problems = append(problems, fmt.Errorf("failed to parse configuration file %q, using defaults: %w", path, err))
				cfg = &Config{}
			}
		}
	}

	ApplyDefaults(cfg)
	problems = append(problems, applyEnvOverrides(cfg)...)
	problems = append(problems, Repair(cfg)...)
	problems = append(problems, resolveServiceSecrets(context.Background(), cfg)...)

	return cfg, problems
}

// resolveServiceSecrets sets the service URLs and tokens from the
// environment, falling back to the files under SecretsDir. A value found
// this way replaces one from the config file. Lookup failures are returned
// and leave the field as it was.
func resolveServiceSecrets(ctx context.Context, cfg *Config) []error {
	var problems []error

	providers := []secrets.SecretProvider{secrets.NewEnvProvider("")}
	if cfg.SecretsDir != "" {
		provider, err := secrets.NewFileProvider(cfg.SecretsDir)
		if err != nil {
			problems = append(problems, fmt.Errorf("secrets_dir: %w; secrets mount skipped", err))
		} else {
			providers = append(providers, provider)
		}
	}
	manager := secrets.NewManager(providers...)

	fields := []struct {
		name string
		dst  *string
	}{
		{EnvTrackerURL, &cfg.Tracker.URL},
		{EnvTrackerToken, &cfg.Tracker.Token},
		{EnvWikiURL, &cfg.Wiki.URL},
		{EnvWikiToken, &cfg.Wiki.Token},
	}

	for _, f := range fields {
		value, err := manager.Lookup(ctx, f.name)
		if err != nil {
			problems = append(problems, fmt.Errorf("failed to read %s, ignored: %w", f.name, err))
			continue
		}
		if value != "" {
			*f.dst = value
		}
	}
	return problems
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set are not overwritten, so values
// injected by the orchestrator win over the file.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies EGRESSPROBE_* overrides to the configuration.
// A value that does not parse is returned as a problem and ignored. The
// service variables are read by resolveServiceSecrets.
func applyEnvOverrides(cfg *Config) []error {
	var problems []error
	report := func(err error) {
		if err != nil {
			problems = append(problems, err)
		}
	}

	if val := os.Getenv("EGRESSPROBE_SECRETS_DIR"); val != "" {
		cfg.SecretsDir = val
	}

	if val := os.Getenv("EGRESSPROBE_LISTEN_ADDRESS"); val != "" {
		cfg.KeepAlive.ListenAddress = val
	}
	if val := os.Getenv("EGRESSPROBE_KEEPALIVE_DISABLED"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			report(fmt.Errorf("EGRESSPROBE_KEEPALIVE_DISABLED: invalid boolean %q, ignored", val))
		} else {
			cfg.KeepAlive.Disabled = b
		}
	}

	report(overrideDuration("EGRESSPROBE_TCP_TIMEOUT", &cfg.Probe.TCPTimeout))
	report(overrideDuration("EGRESSPROBE_HTTP_TIMEOUT", &cfg.Probe.HTTPTimeout))
	report(overrideDuration("EGRESSPROBE_TLS_TIMEOUT", &cfg.Probe.TLSTimeout))
	report(overrideDuration("EGRESSPROBE_DNS_TIMEOUT", &cfg.Probe.DNSTimeout))

	report(overrideInt("EGRESSPROBE_HTTP_PORT", &cfg.Probe.HTTPPort))
	report(overrideInt("EGRESSPROBE_HTTPS_PORT", &cfg.Probe.HTTPSPort))

	if val := os.Getenv("EGRESSPROBE_TLS_MIN_VERSION"); val != "" {
		cfg.Probe.TLSMinVersion = val
	}
	if val := os.Getenv("EGRESSPROBE_CA_FILE"); val != "" {
		cfg.Probe.CAFile = val
	}

	if val := os.Getenv("EGRESSPROBE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("EGRESSPROBE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}

	return problems
}

func overrideDuration(key string, dst *time.Duration) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q, ignored", key, val)
	}
	*dst = d
	return nil
}

func overrideInt(key string, dst *int) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q, ignored", key, val)
	}
	*dst = i
	return nil
}

// VarStatus is the presence of one service environment variable.
type VarStatus struct {
	Name string
	Set  bool
}

// EnvStatus reports which of the four service variables are set, in the
// order they are printed by the environment check.
func (c *Config) EnvStatus() []VarStatus {
	return []VarStatus{
		{Name: EnvTrackerURL, Set: c.Tracker.URL != ""},
		{Name: EnvWikiURL, Set: c.Wiki.URL != ""},
		{Name: EnvTrackerToken, Set: c.Tracker.Token != ""},
		{Name: EnvWikiToken, Set: c.Wiki.Token != ""},
	}
}
