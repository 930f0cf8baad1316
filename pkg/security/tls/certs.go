package tls

import (
	"bytes"
	"crypto/x509"
	"fmt"
	"time"
)

// ValidateX509Certificate checks the certificate's validity window against now.
func ValidateX509Certificate(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from %s)", cert.NotBefore.Format(time.RFC3339))
	}

	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate expired on %s", cert.NotAfter.Format(time.RFC3339))
	}

	return nil
}

// CheckCertificateExpiration checks if a certificate is expiring soon.
// Returns the number of days until expiration and a warning if < 30 days.
func CheckCertificateExpiration(cert *x509.Certificate, now time.Time) (daysUntilExpiry int, warning string) {
	duration := cert.NotAfter.Sub(now)
	daysUntilExpiry = int(duration.Hours() / 24)

	if daysUntilExpiry < 30 {
		warning = fmt.Sprintf("certificate expires in %d days (on %s)",
			daysUntilExpiry, cert.NotAfter.Format("2006-01-02"))
	}

	return daysUntilExpiry, warning
}

// VerifyChain verifies a presented chain as a TLS client would: the leaf
// must chain to roots (system roots when nil) through the remaining
// certificates and be valid for serverName. An empty serverName skips the
// hostname check.
func VerifyChain(chain []*x509.Certificate, serverName string, roots *x509.CertPool) error {
	if len(chain) == 0 {
		return fmt.Errorf("no certificates presented")
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		intermediates.AddCert(c)
	}

	opts := x509.VerifyOptions{
		DNSName:       serverName,
		Roots:         roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	if _, err := chain[0].Verify(opts); err != nil {
		return fmt.Errorf("certificate chain validation failed: %w", err)
	}

	return nil
}

// CertificateInfo is a human-readable summary of an x509 certificate.
type CertificateInfo struct {
	Subject            string      `json:"subject"`
	Issuer             string      `json:"issuer"`
	SubjectFields      []NameField `json:"subject_fields"`
	IssuerFields       []NameField `json:"issuer_fields"`
	SerialNumber       string      `json:"serial_number"`
	NotBefore          time.Time   `json:"not_before"`
	NotAfter           time.Time   `json:"not_after"`
	DaysRemaining      int         `json:"days_remaining"`
	Expired            bool        `json:"expired"`
	DNSNames           []string    `json:"dns_names,omitempty"`
	IPAddresses        []string    `json:"ip_addresses,omitempty"`
	KeyUsage           []string    `json:"key_usage,omitempty"`
	ExtKeyUsage        []string    `json:"ext_key_usage,omitempty"`
	SignatureAlgorithm string      `json:"signature_algorithm"`
	PublicKeyAlgorithm string      `json:"public_key_algorithm"`
	Version            int         `json:"version"`
	IsCA               bool        `json:"is_ca"`
	SelfSigned         bool        `json:"self_signed"`
}

// ExtractCertificateInfo extracts information from an x509 certificate.
func ExtractCertificateInfo(cert *x509.Certificate, now time.Time) *CertificateInfo {
	days, _ := CheckCertificateExpiration(cert, now)

	info := &CertificateInfo{
		Subject:            cert.Subject.String(),
		Issuer:             cert.Issuer.String(),
		SubjectFields:      NameFields(cert.Subject),
		IssuerFields:       NameFields(cert.Issuer),
		SerialNumber:       fmt.Sprintf("%x", cert.SerialNumber),
		NotBefore:          cert.NotBefore,
		NotAfter:           cert.NotAfter,
		DaysRemaining:      days,
		Expired:            now.After(cert.NotAfter),
		DNSNames:           cert.DNSNames,
		KeyUsage:           KeyUsageNames(cert.KeyUsage),
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		PublicKeyAlgorithm: cert.PublicKeyAlgorithm.String(),
		Version:            cert.Version,
		IsCA:               cert.IsCA,
		SelfSigned:         isSelfSigned(cert),
	}

	for _, ip := range cert.IPAddresses {
		info.IPAddresses = append(info.IPAddresses, ip.String())
	}
	for _, usage := range cert.ExtKeyUsage {
		info.ExtKeyUsage = append(info.ExtKeyUsage, ExtKeyUsageName(usage))
	}

	return info
}

// isSelfSigned reports whether cert names itself as issuer and its own key
// verifies its signature. CA constraints are not consulted.
func isSelfSigned(cert *x509.Certificate) bool {
	if !bytes.Equal(cert.RawIssuer, cert.RawSubject) {
		return false
	}
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// KeyUsageNames lists the key usage bits set in usage.
func KeyUsageNames(usage x509.KeyUsage) []string {
	var usages []string
	if usage&x509.KeyUsageDigitalSignature != 0 {
		usages = append(usages, "Digital Signature")
	}
	if usage&x509.KeyUsageContentCommitment != 0 {
		usages = append(usages, "Content Commitment")
	}
	if usage&x509.KeyUsageKeyEncipherment != 0 {
		usages = append(usages, "Key Encipherment")
	}
	if usage&x509.KeyUsageDataEncipherment != 0 {
		usages = append(usages, "Data Encipherment")
	}
	if usage&x509.KeyUsageKeyAgreement != 0 {
		usages = append(usages, "Key Agreement")
	}
	if usage&x509.KeyUsageCertSign != 0 {
		usages = append(usages, "Certificate Sign")
	}
	if usage&x509.KeyUsageCRLSign != 0 {
		usages = append(usages, "CRL Sign")
	}
	if usage&x509.KeyUsageEncipherOnly != 0 {
		usages = append(usages, "Encipher Only")
	}
	if usage&x509.KeyUsageDecipherOnly != 0 {
		usages = append(usages, "Decipher Only")
	}
	return usages
}

// ExtKeyUsageName returns a display name for an extended key usage.
func ExtKeyUsageName(usage x509.ExtKeyUsage) string {
	switch usage {
	case x509.ExtKeyUsageAny:
		return "Any"
	case x509.ExtKeyUsageServerAuth:
		return "Server Authentication"
	case x509.ExtKeyUsageClientAuth:
		return "Client Authentication"
	case x509.ExtKeyUsageCodeSigning:
		return "Code Signing"
	case x509.ExtKeyUsageEmailProtection:
		return "Email Protection"
	case x509.ExtKeyUsageTimeStamping:
		return "Time Stamping"
	case x509.ExtKeyUsageOCSPSigning:
		return "OCSP Signing"
	default:
		return fmt.Sprintf("Unknown (%d)", usage)
	}
}
