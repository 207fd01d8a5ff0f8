package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func nextOK(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_PreflightRequest_AllowedOrigin(t *testing.T) {
	config := DefaultCORSConfig([]string{"http://localhost:3000"})
	config.MaxAge = 3600

	called := false
	handler := CORS(config)(nextOK(&called))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/data", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Access-Control-Allow-Credentials = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "GET") {
		t.Errorf("Access-Control-Allow-Methods = %q, want GET", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Accept, X-Request-ID" {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "3600" {
		t.Errorf("Access-Control-Max-Age = %q", got)
	}
	if called {
		t.Error("Next handler should not be called for preflight requests")
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultCORSConfig([]string{"https://oed.example.org"})
	config.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	called := false
	handler := CORS(config)(nextOK(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/data", nil)
	req.Header.Set("Origin", "http://malicious.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no Access-Control-Allow-Origin, got %q", got)
	}
	if !called {
		t.Error("Next handler should still be called")
	}
	if !strings.Contains(buf.String(), "CORS: origin not allowed") {
		t.Errorf("Expected warning log, got %q", buf.String())
	}
}

func TestCORS_SameOriginRequest_NoOriginHeader(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig([]string{"*"}))(nextOK(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/data", nil))

	if !called {
		t.Error("Next handler should be called")
	}
	if len(rec.Header().Values("Access-Control-Allow-Origin")) != 0 {
		t.Error("Expected no CORS headers for same-origin request")
	}
}

func TestCORS_WildcardWithCredentialsEchoesOrigin(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig([]string{"*"}))(nextOK(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/data", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want Origin", got)
	}
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	config := DefaultCORSConfig([]string{"*"})
	config.AllowCredentials = false

	called := false
	handler := CORS(config)(nextOK(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metadata?column=ec", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("Access-Control-Allow-Credentials = %q, want none", got)
	}
}

func TestCORS_WildcardPreflightEchoesRequestedHeaders(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig([]string{"*"}))(nextOK(&called))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/data", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "X-Custom-Header" {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
}

func TestCORS_PlainOptionsIsNotPreflight(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig([]string{"*"}))(nextOK(&called))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/data", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("OPTIONS without Access-Control-Request-Method should reach the next handler")
	}
}
