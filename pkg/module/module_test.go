package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/annual/pkg/module"
)

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func body(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	resp := w.Result()
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestNew_InvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "/", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("New(%q) did not panic", prefix)
				}
			}()
			module.New(prefix, http.HandlerFunc(echoPath))
		})
	}
}

func TestModule_Serve(t *testing.T) {
	m := module.New("/app", http.HandlerFunc(echoPath))

	if m.Prefix() != "/app" {
		t.Errorf("Prefix() = %q, want %q", m.Prefix(), "/app")
	}

	tests := []struct {
		path     string
		wantPath string
	}{
		{"/app", "/"},
		{"/app/login", "/login"},
		{"/app/a/b/c", "/a/b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			m.Serve(w, req)

			if got := w.Body.String(); got != tt.wantPath {
				t.Errorf("path = %q, want %q", got, tt.wantPath)
			}
			if req.URL.Path != tt.path {
				t.Errorf("original request mutated: %q", req.URL.Path)
			}
		})
	}
}

func TestModule_MiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	m := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	m.Use(tag("first"))
	m.Use(tag("second"))

	m.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRouter_Dispatch(t *testing.T) {
	r := module.NewRouter()
	r.HandleNative("GET /healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("healthy"))
	})
	r.Mount(module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("api " + req.URL.Path))
	})))
	r.Mount(module.New("/app", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("app " + req.URL.Path))
	})))

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/healthz", http.StatusOK, "healthy"},
		{"/api/routes", http.StatusOK, "api /routes"},
		{"/app", http.StatusOK, "app /"},
		{"/app/", http.StatusOK, "app /"},
		{"/app/login/", http.StatusOK, "app /login"},
		{"/app/users/123/posts", http.StatusOK, "app /users/123/posts"},
		{"/apiv2", http.StatusNotFound, ""},
		{"/unknown", http.StatusNotFound, ""},
		{"/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, got := body(t, r, tt.path)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if tt.status == http.StatusOK && got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}
