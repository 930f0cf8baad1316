package tls

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClientConfig_ToTLSConfig(t *testing.T) {
	tests := []struct {
		name         string
		cfg          ClientConfig
		wantInsecure bool
		wantMin      uint16
		wantErr      bool
	}{
		{name: "verified default", cfg: ClientConfig{Verify: true}, wantInsecure: false},
		{name: "unverified", cfg: ClientConfig{Verify: false}, wantInsecure: true},
		{name: "min version 1.2", cfg: ClientConfig{Verify: true, MinVersion: "1.2"}, wantMin: tls.VersionTLS12},
		{name: "bad min version", cfg: ClientConfig{MinVersion: "2.0"}, wantErr: true},
		{name: "missing CA file", cfg: ClientConfig{CAFile: "/nonexistent/ca.pem"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ToTLSConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToTLSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.InsecureSkipVerify != tt.wantInsecure {
				t.Errorf("InsecureSkipVerify = %v, want %v", got.InsecureSkipVerify, tt.wantInsecure)
			}
			if got.MinVersion != tt.wantMin {
				t.Errorf("MinVersion = %x, want %x", got.MinVersion, tt.wantMin)
			}
		})
	}
}

func TestClientConfig_CAFile(t *testing.T) {
	now := time.Now()
	cert := newTestCert(t, now.Add(-time.Hour), now.Add(time.Hour))
	path := writePEM(t, cert)

	cfg := ClientConfig{Verify: true, CAFile: path}
	got, err := cfg.ToTLSConfig()
	if err != nil {
		t.Fatalf("ToTLSConfig() error = %v", err)
	}
	if got.RootCAs == nil {
		t.Fatal("expected RootCAs to be set")
	}
	if err := VerifyChain(nil, "", got.RootCAs); err == nil {
		t.Error("empty chain must not verify")
	}
}

func TestLoadRootPool_NoCertificates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRootPool(path); err == nil {
		t.Error("expected error for file without certificates")
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{"", 0, false},
		{"1.0", tls.VersionTLS10, false},
		{"1.1", tls.VersionTLS11, false},
		{"1.2", tls.VersionTLS12, false},
		{"1.3", tls.VersionTLS13, false},
		{"3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %x, want %x", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersionName(t *testing.T) {
	tests := []struct {
		in   uint16
		want string
	}{
		{tls.VersionTLS10, "TLSv1"},
		{tls.VersionTLS12, "TLSv1.2"},
		{tls.VersionTLS13, "TLSv1.3"},
		{0x0999, "0x0999"},
	}

	for _, tt := range tests {
		if got := VersionName(tt.in); got != tt.want {
			t.Errorf("VersionName(%x) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
