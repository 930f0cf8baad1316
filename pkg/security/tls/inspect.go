package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
)

// Dialer opens the raw TCP connection for a handshake. *net.Dialer
// satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Inspection is what a handshake revealed about an endpoint.
type Inspection struct {
	Address          string
	Version          uint16
	CipherSuite      uint16
	ALPN             string
	PeerCertificates []*x509.Certificate
}

// VersionName returns the negotiated protocol version, e.g. "TLSv1.3".
func (i *Inspection) VersionName() string {
	return VersionName(i.Version)
}

// CipherSuiteName returns the IANA name of the negotiated cipher suite.
func (i *Inspection) CipherSuiteName() string {
	return tls.CipherSuiteName(i.CipherSuite)
}

// Leaf returns the server certificate, or nil when none was presented.
func (i *Inspection) Leaf() *x509.Certificate {
	if len(i.PeerCertificates) == 0 {
		return nil
	}
	return i.PeerCertificates[0]
}

// Inspect performs a TLS handshake against address with verification and
// hostname checking disabled, so metadata can be read even from self-signed
// or mismatched endpoints. serverName is sent as SNI. The deadline comes
// from ctx.
func Inspect(ctx context.Context, dialer Dialer, address, serverName string) (*Inspection, error) {
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	rawConn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	defer rawConn.Close()

	cfg := &ClientConfig{Verify: false, ServerName: serverName}
	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		return nil, err
	}

	conn := tls.Client(rawConn, tlsConfig)
	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, fmt.Errorf("handshake with %s: %w", address, err)
	}

	state := conn.ConnectionState()
	return &Inspection{
		Address:          address,
		Version:          state.Version,
		CipherSuite:      state.CipherSuite,
		ALPN:             state.NegotiatedProtocol,
		PeerCertificates: state.PeerCertificates,
	}, nil
}
