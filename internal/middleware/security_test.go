package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveSecure(hsts bool, next http.HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	SecureHeaders(hsts)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	return rr
}

func TestSecureHeaders(t *testing.T) {
	rr := serveSecure(false, func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
		{"Cross-Origin-Opener-Policy", "same-origin"},
		{"Cross-Origin-Resource-Policy", "same-site"},
		{"Cache-Control", "no-store"},
		{"Strict-Transport-Security", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := rr.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestSecureHeadersHSTS(t *testing.T) {
	rr := serveSecure(true, func(w http.ResponseWriter, r *http.Request) {})
	if got := rr.Header().Get("Strict-Transport-Security"); got != hstsValue {
		t.Errorf("HSTS = %q, want %q", got, hstsValue)
	}
}

func TestSecureHeadersCacheOverride(t *testing.T) {
	rr := serveSecure(false, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=60")
	})
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("Cache-Control = %q, handler override lost", got)
	}
}
