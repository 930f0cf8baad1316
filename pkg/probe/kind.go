package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
)

// Kind classifies the outcome of a probe step.
type Kind int

const (
	// KindSuccess means the step completed.
	KindSuccess Kind = iota
	// KindTimeout means the step exceeded its deadline.
	KindTimeout
	// KindConnection means the transport failed: refused, reset, unreachable.
	KindConnection
	// KindTLS means the TLS handshake or certificate verification failed.
	KindTLS
	// KindError is anything else.
	KindError
)

// String returns the label used in console output and log fields.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindTLS:
		return "tls"
	default:
		return "error"
	}
}

// Classify maps an error to a Kind. Timeouts win over everything else so a
// handshake that stalls is reported as a timeout, not a TLS failure.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case isTimeout(err):
		return KindTimeout
	case isTLS(err):
		return KindTLS
	case isConnection(err):
		return KindConnection
	default:
		return KindError
	}
}

// Fold reduces kind to one of the kinds a step reports distinctly; anything
// else becomes KindError.
func Fold(kind Kind, reported ...Kind) Kind {
	if kind == KindSuccess {
		return kind
	}
	for _, r := range reported {
		if kind == r {
			return kind
		}
	}
	return KindError
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLS(err error) bool {
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalid          x509.CertificateInvalidError
		systemRoots      x509.SystemRootsError
		verification     *tls.CertificateVerificationError
		recordHeader     tls.RecordHeaderError
		alert            tls.AlertError
	)
	switch {
	case errors.As(err, &unknownAuthority),
		errors.As(err, &hostname),
		errors.As(err, &invalid),
		errors.As(err, &systemRoots),
		errors.As(err, &verification),
		errors.As(err, &recordHeader),
		errors.As(err, &alert):
		return true
	}
	// Handshake failures such as "remote error: tls: handshake failure" are
	// not always typed.
	return strings.Contains(err.Error(), "tls: ")
}

func isConnection(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return false
}

// isRefused reports whether the peer actively rejected the connection.
func isRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
