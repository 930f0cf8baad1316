package probe

import (
	"net"
	"strconv"
	"strings"
)

// ExtractHostname derives the bare hostname from a configured URL by
// stripping the scheme, userinfo, path, query, fragment and port. Bracketed
// IPv6 literals are returned without brackets.
//
//	ExtractHostname("https://example.com:8443/path") == "example.com"
func ExtractHostname(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}

	if strings.HasPrefix(s, "[") {
		if i := strings.Index(s, "]"); i > 0 {
			return s[1:i]
		}
		return strings.TrimPrefix(s, "[")
	}

	// A single colon separates a port; more than one is a bare IPv6 literal.
	if strings.Count(s, ":") == 1 {
		s = s[:strings.Index(s, ":")]
	}
	return s
}

// NormalizeURL returns raw with surrounding space and a trailing slash
// removed. A URL without a scheme gets "https://" and defaulted is true.
func NormalizeURL(raw string) (normalized string, defaulted bool) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.Contains(s, "://") {
		return "https://" + s, true
	}
	return s, false
}

// IsPlainHTTP reports whether a normalized URL uses the http scheme.
func IsPlainHTTP(url string) bool {
	return strings.HasPrefix(strings.ToLower(url), "http://")
}

// urlHost formats host for use in a URL, appending the port only when it
// differs from the scheme's default.
func urlHost(host string, port, defaultPort int) string {
	if port == defaultPort {
		if strings.Contains(host, ":") {
			return "[" + host + "]"
		}
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
