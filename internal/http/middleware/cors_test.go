package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSOrigins(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"exact match", []string{"https://app.caretaker.test"}, "https://app.caretaker.test", "https://app.caretaker.test"},
		{"trailing slash in config", []string{"https://app.caretaker.test/"}, "https://app.caretaker.test", "https://app.caretaker.test"},
		{"unknown origin", []string{"https://app.caretaker.test"}, "https://evil.test", ""},
		{"any origin", []string{"*"}, "https://random.test", "https://random.test"},
		{"wildcard subdomain", []string{"https://*.caretaker.test"}, "https://staging.caretaker.test", "https://staging.caretaker.test"},
		{"wildcard needs a label", []string{"https://*.caretaker.test"}, "https://.caretaker.test", ""},
		{"wildcard keeps scheme", []string{"https://*.caretaker.test"}, "http://staging.caretaker.test", ""},
		{"no origin header", []string{"*"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			called := false
			CORS(tt.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})).ServeHTTP(rec, req)

			if !called {
				t.Fatalf("expected handler to run for simple requests")
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Fatalf("expected allow origin %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	mw := CORS([]string{"https://app.caretaker.test"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run on preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://app.caretaker.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatalf("expected allow headers header")
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://evil.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
