package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authRequest(t *testing.T, s *Server, method, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr.Code
}

func TestAuth_NoKeyConfigured(t *testing.T) {
	s := NewServer(Options{})
	if code := authRequest(t, s, http.MethodGet, "/v1/abis/erc20", ""); code != http.StatusOK {
		t.Fatalf("expected 200 when no API key configured, got %d", code)
	}
}

func TestAuth_RegistryRoutes(t *testing.T) {
	s := NewServer(Options{
		APIKey:    "secret123",
		Snapshots: &fakeSnapshots{},
		Reloader:  &fakeReloader{},
	})

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"list without header", http.MethodGet, "/v1/abis", "", http.StatusUnauthorized},
		{"history without header", http.MethodGet, "/v1/abis/erc20/history", "", http.StatusUnauthorized},
		{"latest with wrong key", http.MethodGet, "/v1/abis/erc20/history/latest", "Bearer wrong_key", http.StatusUnauthorized},
		{"reload without header", http.MethodPost, "/v1/abis/reload", "", http.StatusUnauthorized},
		{"reload with basic auth", http.MethodPost, "/v1/abis/reload", "Basic secret123", http.StatusUnauthorized},
		{"unknown ABI still needs auth", http.MethodGet, "/v1/abis/UNISWAP_V3_ABI", "", http.StatusUnauthorized},

		{"raw ABI with key", http.MethodGet, "/v1/abis/TOKEN_MANAGER_ABI", "Bearer secret123", http.StatusOK},
		{"fragments with key", http.MethodGet, "/v1/abis/helper3/fragments?type=event", "Bearer secret123", http.StatusOK},
		{"history with key", http.MethodGet, "/v1/abis/erc20/history", "Bearer secret123", http.StatusOK},
		{"reload with key", http.MethodPost, "/v1/abis/reload", "Bearer secret123", http.StatusOK},

		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics are public", http.MethodGet, "/metrics", "", http.StatusOK},
		{"reload preflight is public", http.MethodOptions, "/v1/abis/reload", "", http.StatusOK},
	}
	for _, tc := range cases {
		if code := authRequest(t, s, tc.method, tc.path, tc.auth); code != tc.want {
			t.Fatalf("%s: %s %s = %d, want %d", tc.name, tc.method, tc.path, code, tc.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		query    string
		deflt    int
		expected int
	}{
		{"", 50, 50},
		{"?limit=5", 50, 5},
		{"?limit=0", 50, 50},
		{"?limit=-5", 50, 50},
		{"?limit=abc", 50, 50},
		{"?limit=2000", 50, maxQueryLimit},
		{"?limit=1000", 50, 1000},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/abis/erc20/history"+tc.query, nil)
		got := parseLimit(req, tc.deflt)
		if got != tc.expected {
			t.Fatalf("parseLimit(%q, %d) = %d, want %d", tc.query, tc.deflt, got, tc.expected)
		}
	}
}

func TestCORS_ABIResponses(t *testing.T) {
	s := NewServer(Options{CORSOrigin: "https://explorer.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/v1/abis/pancake_router", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "https://explorer.example.com" {
		t.Fatalf("expected custom origin, got %q", origin)
	}
	if methods := rr.Header().Get("Access-Control-Allow-Methods"); methods != "GET, POST, OPTIONS" {
		t.Fatalf("Allow-Methods = %q", methods)
	}
	if rr.Header().Get("ETag") == "" {
		t.Fatal("expected ETag on the ABI body")
	}
}

func TestCORS_PreflightSkipsHandler(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called for OPTIONS")
	})
	handler := corsMiddleware(inner, "")

	req := httptest.NewRequest(http.MethodOptions, "/v1/abis/reload", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rr.Code)
	}
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Fatalf("expected wildcard origin by default, got %q", origin)
	}
}
