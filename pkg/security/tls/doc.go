/*
Package tls inspects the TLS side of an outbound endpoint.

# Handshake Inspection

Inspect dials an address and completes a handshake with verification
disabled, returning the negotiated version, cipher suite and the presented
chain:

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	insp, err := tls.Inspect(ctx, &net.Dialer{}, "jira.example.com:443", "jira.example.com")
	if err != nil {
		return err
	}
	fmt.Println(insp.VersionName())
	fmt.Println(tls.FormatNameFields(tls.NameFields(insp.Leaf().Subject)))

# Certificate Details

ExtractCertificateInfo summarises a certificate (subject and issuer as
key/value pairs, validity, SANs, usages, algorithms). VerifyChain re-runs
client verification on a captured chain so an unverified handshake can still
say why verification would have failed.

# Client Configuration

ClientConfig builds the *tls.Config used by the HTTP probes, with optional
minimum version and an extra CA bundle for clusters behind a re-signing
egress proxy.
*/
package tls
