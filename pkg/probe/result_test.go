package probe

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "ok", n: 10, want: "ok"},
		{name: "cut", in: "abcdef", n: 3, want: "abc"},
		{name: "whitespace collapsed", in: "{\n  \"a\": 1\n}", n: 200, want: "{ \"a\": 1 }"},
		{name: "multibyte runes kept whole", in: "äöüß", n: 2, want: "äö"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestTruncate_Limit(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := truncate(long, previewLimit); len(got) != previewLimit {
		t.Errorf("expected %d characters, got %d", previewLimit, len(got))
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "plain", err: errors.New("boom"), want: "errors.errorString"},
		{name: "wrapped plain", err: fmt.Errorf("ctx: %w", errors.New("boom")), want: "fmt.wrapError"},
		{
			name: "typed chain",
			err:  fmt.Errorf("dial: %w", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}),
			want: "syscall.Errno",
		},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "x"}, want: "net.DNSError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorType(tt.err); got != tt.want {
				t.Errorf("errorType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_Limit(t *testing.T) {
	if (Result{}).limit() != previewLimit {
		t.Error("expected default limit")
	}
	if (Result{Limit: shortPreviewLimit}).limit() != shortPreviewLimit {
		t.Error("expected explicit limit")
	}
}
