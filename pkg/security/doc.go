/*
Package security groups the TLS and secret handling used by the probes.

# TLS

The tls subpackage builds client configurations for the verified and
unverified probes, performs inspection handshakes and summarizes the
certificates a server presents:

	cfg := &tls.ClientConfig{Verify: true, MinVersion: "1.2", CAFile: caFile}
	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		return err
	}

	inspection, err := tls.Inspect(ctx, nil, "jira.example.com:443", "jira.example.com")

# Secrets

The secrets subpackage resolves service URLs and tokens from a mounted
Kubernetes Secret when the environment does not carry them:

	provider, err := secrets.NewFileProvider("/var/run/secrets/atlassian")
	token, err := secrets.NewManager(provider).Lookup(ctx, "JIRA_PERSONAL_TOKEN")
*/
package security
