// Egressprobe diagnoses whether a pod can reach the Jira and Confluence
// servers it depends on.
//
// It resolves each configured host, opens TCP connections on the HTTP and
// HTTPS ports, issues unauthenticated and token-authenticated requests, and
// inspects the server certificate. Every step reports success or a classified
// failure, so a single run tells apart DNS, firewall, proxy, certificate and
// credential problems. Afterwards a small HTTP responder keeps the pod alive
// so the report can be read with kubectl logs.
//
// Usage:
//
//	# Probe the services named by JIRA_URL / CONFLUENCE_URL, then keep alive
//	egressprobe
//
//	# Probe once from a workstation and exit
//	egressprobe run --env-file .env --no-keepalive
//
//	# Inspect the certificate an endpoint presents
//	egressprobe cert jira.example.com
//
//	# Show version information
//	egressprobe version
package main

import "os"

func main() {
	os.Exit(Execute())
}
