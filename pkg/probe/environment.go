package probe

import (
	"crypto/tls"
	"runtime"

	"mercator-hq/egressprobe/pkg/config"
	securityTLS "mercator-hq/egressprobe/pkg/security/tls"
)

// RuntimeInfo describes the networking stack the probes run on.
type RuntimeInfo struct {
	GoVersion  string
	OS         string
	Arch       string
	HTTPClient string
	TLSMin     string
	TLSMax     string
}

// CurrentRuntime reports the running binary's runtime. minVersion is the
// configured minimum TLS version, empty for the client default.
func CurrentRuntime(minVersion string) RuntimeInfo {
	lowest, err := securityTLS.ParseVersion(minVersion)
	if err != nil || lowest == 0 {
		// crypto/tls clients offer TLS 1.2 and up unless told otherwise.
		lowest = tls.VersionTLS12
	}

	return RuntimeInfo{
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		HTTPClient: "net/http (HTTP/1.1, HTTP/2)",
		TLSMin:     securityTLS.VersionName(lowest),
		TLSMax:     securityTLS.VersionName(tls.VersionTLS13),
	}
}

// EnvCheck writes the present/missing line for each service variable.
// Values are never printed.
func (p *Reporter) EnvCheck(status []config.VarStatus) {
	p.Section("ENV CHECK")
	p.Printf("  Environment Variables:")
	for _, v := range status {
		mark := "✗ Missing"
		if v.Set {
			mark = "✓ Set"
		}
		p.Printf("  %s: %s", v.Name, mark)
	}
}

// Runtime writes the runtime information block.
func (p *Reporter) Runtime(info RuntimeInfo) {
	p.Section("RUNTIME INFO")
	p.Printf("  Go version: %s", info.GoVersion)
	p.Printf("  Platform: %s/%s", info.OS, info.Arch)
	p.Printf("  HTTP client: %s", info.HTTPClient)
	p.Printf("  TLS versions offered: %s - %s", info.TLSMin, info.TLSMax)
}

// ConfigWarnings lists configuration problems that were replaced by
// defaults, so a misconfigured pod still shows why it behaves as it does.
func (p *Reporter) ConfigWarnings(problems []error) {
	p.Section("CONFIG WARNINGS")
	for _, err := range problems {
		p.Printf("  ⚠ %v", err)
	}
}
