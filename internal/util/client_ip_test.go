package util

import (
	"net/http/httptest"
	"testing"
)

func TestClientIPUntrustedPeerIgnoresHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.10:4444"
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	req.Header.Set("X-Real-IP", "203.0.113.6")

	if got := ClientIP(req, nil); got != "198.51.100.10" {
		t.Fatalf("client ip = %q, want the direct peer", got)
	}
}

func TestClientIPTrustedProxyChain(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		xff  string
		xrip string
		want string
	}{
		{"single forwarded hop", "203.0.113.5", "", "203.0.113.5"},
		{"first untrusted from the right wins", "203.0.113.5, 10.0.0.10", "", "203.0.113.5"},
		{"all hops trusted returns the leftmost", "10.0.0.5, 10.0.0.10", "", "10.0.0.5"},
		{"garbage xff falls back to x-real-ip", "not-an-ip", "203.0.113.7", "203.0.113.7"},
		{"no headers falls back to peer", "", "", "10.0.0.20"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = "10.0.0.20:4444"
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xrip != "" {
				req.Header.Set("X-Real-IP", tc.xrip)
			}
			if got := ClientIP(req, trusted); got != tc.want {
				t.Fatalf("client ip = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewTrustedProxies(t *testing.T) {
	tp, err := NewTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"})
	if err != nil || tp == nil {
		t.Fatalf("valid entries: tp=%v err=%v", tp, err)
	}
	if _, err := NewTrustedProxies([]string{"not-a-cidr"}); err == nil {
		t.Fatal("expected a parse error")
	}
	tp, err = NewTrustedProxies([]string{"", "  "})
	if err != nil || tp != nil {
		t.Fatalf("blank entries should trust nothing: tp=%v err=%v", tp, err)
	}
}
