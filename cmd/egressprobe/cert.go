package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/egressprobe/pkg/cli"
	"mercator-hq/egressprobe/pkg/config"
	securityTLS "mercator-hq/egressprobe/pkg/security/tls"
)

var certFlags struct {
	output     string
	timeout    time.Duration
	serverName string
	caFile     string
}

var certCmd = &cobra.Command{
	Use:   "cert <host[:port]|url>",
	Short: "Display the certificate chain an endpoint presents",
	Long: `Connect to an endpoint, complete a TLS handshake without verification and
display what the server presented:

  - Negotiated protocol version and cipher suite
  - Every certificate in the chain: subject, issuer, validity, SANs,
    key usage, algorithms and serial number
  - Whether the chain would pass verification against the system roots
    (plus --ca-file, if given)

The port defaults to 443. URLs are accepted, so the value of JIRA_URL can be
pasted as is.

Output formats:
  - text (default): Human-readable formatted output
  - json: JSON-formatted output for scripting

Examples:
  # Inspect the Jira endpoint
  egressprobe cert jira.example.com

  # Non-standard port, JSON output
  egressprobe cert --output json confluence.example.com:8443

  # Check a chain re-signed by the cluster's egress proxy
  egressprobe cert --ca-file /etc/ssl/proxy-ca.pem https://jira.example.com/`,
	Args: cobra.ExactArgs(1),
	RunE: displayCert,
}

func init() {
	rootCmd.AddCommand(certCmd)

	certCmd.Flags().StringVarP(&certFlags.output, "output", "o", "text", "output format: text, json")
	certCmd.Flags().DurationVar(&certFlags.timeout, "timeout", config.DefaultTLSTimeout, "handshake timeout")
	certCmd.Flags().StringVar(&certFlags.serverName, "server-name", "", "SNI and verification name (default: the host)")
	certCmd.Flags().StringVar(&certFlags.caFile, "ca-file", "", "extra PEM bundle trusted when verifying the chain")
}

func displayCert(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(certFlags.output)
	if err != nil {
		return err
	}

	host, address, err := certTarget(args[0])
	if err != nil {
		return err
	}
	serverName := certFlags.serverName
	if serverName == "" {
		serverName = host
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), certFlags.timeout)
	defer cancel()

	inspection, err := securityTLS.Inspect(ctx, nil, address, serverName)
	if err != nil {
		return cli.NewCommandError("cert", err)
	}

	report, err := newCertReport(inspection, serverName, certFlags.caFile, time.Now())
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report)
}

// certTarget turns a host, host:port or URL into the host name and the
// address to dial.
func certTarget(arg string) (host, address string, err error) {
	arg = strings.TrimSpace(arg)
	port := strconv.Itoa(config.DefaultHTTPSPort)

	if strings.Contains(arg, "://") {
		u, err := url.Parse(arg)
		if err != nil {
			return "", "", cli.NewConfigError("target", fmt.Sprintf("invalid URL %q: %v", arg, err))
		}
		host = u.Hostname()
		if p := u.Port(); p != "" {
			port = p
		}
	} else if h, p, err := net.SplitHostPort(arg); err == nil {
		host, port = h, p
	} else {
		host = strings.Trim(arg, "[]")
	}

	if host == "" {
		return "", "", cli.NewConfigError("target", fmt.Sprintf("no host in %q", arg))
	}
	return host, net.JoinHostPort(host, port), nil
}

// certReport is the result of the cert command.
type certReport struct {
	Address     string                         `json:"address"`
	ServerName  string                         `json:"server_name"`
	TLSVersion  string                         `json:"tls_version"`
	CipherSuite string                         `json:"cipher_suite"`
	ALPN        string                         `json:"alpn,omitempty"`
	Verified    bool                           `json:"verified"`
	VerifyError string                         `json:"verify_error,omitempty"`
	Chain       []*securityTLS.CertificateInfo `json:"chain"`
}

func newCertReport(in *securityTLS.Inspection, serverName, caFile string, now time.Time) (*certReport, error) {
	report := &certReport{
		Address:     in.Address,
		ServerName:  serverName,
		TLSVersion:  in.VersionName(),
		CipherSuite: in.CipherSuiteName(),
		ALPN:        in.ALPN,
	}

	for _, cert := range in.PeerCertificates {
		report.Chain = append(report.Chain, securityTLS.ExtractCertificateInfo(cert, now))
	}

	if caFile != "" {
		roots, err := securityTLS.LoadRootPool(caFile)
		if err != nil {
			return nil, cli.NewConfigError("ca-file", err.Error())
		}
		err = securityTLS.VerifyChain(in.PeerCertificates, serverName, roots)
		report.setVerification(err)
	} else {
		report.setVerification(securityTLS.VerifyChain(in.PeerCertificates, serverName, nil))
	}

	return report, nil
}

func (r *certReport) setVerification(err error) {
	r.Verified = err == nil
	if err != nil {
		r.VerifyError = err.Error()
	}
}

// WriteText renders the report for a terminal.
func (r *certReport) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Endpoint: %s (SNI %s)\n", r.Address, r.ServerName)
	fmt.Fprintf(&b, "  Protocol: %s\n", r.TLSVersion)
	fmt.Fprintf(&b, "  Cipher: %s\n", r.CipherSuite)
	if r.ALPN != "" {
		fmt.Fprintf(&b, "  ALPN: %s\n", r.ALPN)
	}
	if r.Verified {
		b.WriteString("  Verification: ✓ trusted\n")
	} else {
		fmt.Fprintf(&b, "  Verification: ✗ would fail: %s\n", r.VerifyError)
	}

	for i, info := range r.Chain {
		role := "intermediate"
		if i == 0 {
			role = "leaf"
		}
		fmt.Fprintf(&b, "\nCertificate %d (%s)\n", i, role)
		writeCertText(&b, info)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCertText(b *strings.Builder, info *securityTLS.CertificateInfo) {
	b.WriteString("Subject:\n")
	for _, f := range info.SubjectFields {
		fmt.Fprintf(b, "  %s: %s\n", f.Key, f.Value)
	}

	b.WriteString("\nIssuer:\n")
	for _, f := range info.IssuerFields {
		fmt.Fprintf(b, "  %s: %s\n", f.Key, f.Value)
	}

	b.WriteString("\nValidity:\n")
	fmt.Fprintf(b, "  Not Before: %s\n", info.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(b, "  Not After: %s\n", info.NotAfter.Format(time.RFC3339))
	if info.Expired {
		fmt.Fprintf(b, "  Status: ✗ EXPIRED on %s\n", info.NotAfter.Format("2006-01-02"))
	} else {
		fmt.Fprintf(b, "  Status: ✓ Valid (%d days remaining)\n", info.DaysRemaining)
		if info.DaysRemaining < 30 {
			fmt.Fprintf(b, "  Warning: ⚠  Certificate expires in %d days\n", info.DaysRemaining)
		}
	}

	if len(info.DNSNames) > 0 || len(info.IPAddresses) > 0 {
		b.WriteString("\nSubject Alternative Names:\n")
		for _, san := range info.DNSNames {
			fmt.Fprintf(b, "  - DNS: %s\n", san)
		}
		for _, ip := range info.IPAddresses {
			fmt.Fprintf(b, "  - IP: %s\n", ip)
		}
	}

	if len(info.KeyUsage) > 0 {
		b.WriteString("\nKey Usage:\n")
		for _, usage := range info.KeyUsage {
			fmt.Fprintf(b, "  - %s\n", usage)
		}
	}

	if len(info.ExtKeyUsage) > 0 {
		b.WriteString("\nExtended Key Usage:\n")
		for _, usage := range info.ExtKeyUsage {
			fmt.Fprintf(b, "  - %s\n", usage)
		}
	}

	b.WriteString("\nAlgorithms:\n")
	fmt.Fprintf(b, "  Signature Algorithm: %s\n", info.SignatureAlgorithm)
	fmt.Fprintf(b, "  Public Key Algorithm: %s\n", info.PublicKeyAlgorithm)

	b.WriteString("\nAdditional Information:\n")
	fmt.Fprintf(b, "  Serial Number: %s\n", info.SerialNumber)
	fmt.Fprintf(b, "  Version: %d\n", info.Version)
	fmt.Fprintf(b, "  Is CA: %v\n", info.IsCA)
	fmt.Fprintf(b, "  Self-signed: %v\n", info.SelfSigned)
}
