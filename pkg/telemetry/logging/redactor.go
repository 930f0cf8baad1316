package logging

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Redactor masks credentials in log fields and in diagnostic text.
//
// Three mechanisms apply, in order: literal secrets registered at
// construction (the configured personal access tokens), built-in patterns
// such as Authorization headers, and key names that indicate a credential.
type Redactor struct {
	patterns []*redactPattern
	secrets  []string
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternBasicAuth   = "basic_auth"
	PatternPassword    = "password"
	PatternURLUserinfo = "url_userinfo"
)

// secretPlaceholder replaces a registered literal secret.
const secretPlaceholder = "[REDACTED]"

// minSecretLength is the shortest literal secret that is masked. Shorter
// values match ordinary words in the report; the credential patterns still
// cover them where they appear in headers.
const minSecretLength = 8

// NewRedactor creates a Redactor that, besides the built-in patterns, masks
// every occurrence of the given literal secrets. Secrets shorter than
// minSecretLength are ignored.
func NewRedactor(secrets []string) *Redactor {
	r := &Redactor{}
	r.addDefaultPatterns()

	for _, s := range secrets {
		if len(s) >= minSecretLength {
			r.secrets = append(r.secrets, s)
		}
	}
	// Longest first so a secret that contains another is masked whole.
	sort.SliceStable(r.secrets, func(i, j int) bool {
		return len(r.secrets[i]) > len(r.secrets[j])
	})

	return r
}

// addDefaultPatterns adds built-in credential patterns. Hostnames and IP
// addresses are deliberately left alone; they are the point of the output.
func (r *Redactor) addDefaultPatterns() {
	patterns := []struct {
		name        string
		regex       string
		replacement string
	}{
		{
			name:        PatternBearerToken,
			regex:       `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			replacement: "Bearer ***",
		},
		{
			name:        PatternBasicAuth,
			regex:       `Basic\s+[a-zA-Z0-9+/]+=*`,
			replacement: "Basic ***",
		},
		{
			name:        PatternPassword,
			regex:       `(password|passwd|pwd)[:=]\s*[^\s]+`,
			replacement: "$1: ***",
		},
		{
			name:        PatternURLUserinfo,
			regex:       `(https?://)[^/@\s]+@`,
			replacement: "$1***@",
		},
	}

	for _, p := range patterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
}

// RedactString masks secrets and credential patterns in value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}

	redacted := value
	for _, s := range r.secrets {
		redacted = strings.ReplaceAll(redacted, s, secretPlaceholder)
	}
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// RedactArgs redacts variadic log arguments of the form key1, value1, ...
// Error values are flattened to their redacted message.
func (r *Redactor) RedactArgs(args ...any) []any {
	if r == nil || len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if ok && r.isSensitiveKey(key) {
			redacted[i] = r.redactValue(redacted[i])
			continue
		}

		switch v := redacted[i].(type) {
		case string:
			redacted[i] = r.RedactString(v)
		case error:
			redacted[i] = r.RedactString(v.Error())
		}
	}

	return redacted
}

// isSensitiveKey checks if a key name indicates sensitive data.
func (r *Redactor) isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token", "api_key", "apikey",
		"authorization", "credential",
		"private_key", "privatekey",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// redactValue redacts a sensitive value, keeping a short prefix of strings
// long enough that the prefix reveals little. Booleans are presence flags
// and pass through.
func (r *Redactor) redactValue(value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if v == "" {
			return ""
		}
		return RedactToken(v)
	case fmt.Stringer:
		return "***"
	default:
		return "***"
	}
}

// RedactToken masks a token, keeping the first 4 characters of tokens
// longer than 8 so operators can tell which one is mounted.
func RedactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "***"
}
