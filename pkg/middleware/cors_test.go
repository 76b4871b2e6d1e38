package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/annual/pkg/middleware"
)

func TestCORSConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TEST_CORS_MAX_AGE", "60")

	cfg := &middleware.CORSConfig{}
	err := cfg.Finalize(&middleware.CORSEnv{
		Origins: "TEST_CORS_ORIGINS",
		MaxAge:  "TEST_CORS_MAX_AGE",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.test" {
		t.Errorf("Origins = %v, want [http://a.test http://b.test]", cfg.Origins)
	}
	if cfg.MaxAge != 60 {
		t.Errorf("MaxAge = %d, want 60", cfg.MaxAge)
	}
	if len(cfg.AllowedMethods) != 2 || cfg.AllowedMethods[0] != "GET" {
		t.Errorf("AllowedMethods = %v, want [GET OPTIONS]", cfg.AllowedMethods)
	}
}

func TestCORSConfig_Merge(t *testing.T) {
	base := &middleware.CORSConfig{Origins: []string{"http://a.test"}, MaxAge: 10}
	base.Merge(&middleware.CORSConfig{Enabled: true, MaxAge: 20})

	if !base.Enabled {
		t.Error("Enabled = false, want true")
	}
	if len(base.Origins) != 1 {
		t.Errorf("Origins = %v, want unchanged", base.Origins)
	}
	if base.MaxAge != 20 {
		t.Errorf("MaxAge = %d, want 20", base.MaxAge)
	}
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://allowed.test"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	}

	tests := []struct {
		name       string
		cfg        *middleware.CORSConfig
		method     string
		origin     string
		wantOrigin string
		wantStatus int
		wantNext   bool
	}{
		{"allowed origin", cfg, http.MethodGet, "http://allowed.test", "http://allowed.test", http.StatusOK, true},
		{"preflight", cfg, http.MethodOptions, "http://allowed.test", "http://allowed.test", http.StatusOK, false},
		{"disallowed origin", cfg, http.MethodGet, "http://evil.test", "", http.StatusOK, true},
		{"no origin", cfg, http.MethodGet, "", "", http.StatusOK, true},
		{"disabled", &middleware.CORSConfig{Origins: cfg.Origins}, http.MethodGet, "http://allowed.test", "", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.CORS(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(tt.method, "/routes", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called != tt.wantNext {
				t.Errorf("next called = %v, want %v", called, tt.wantNext)
			}
			if tt.wantOrigin != "" && w.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("Allow-Credentials not set")
			}
		})
	}
}
