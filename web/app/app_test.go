package app_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/annual/pkg/metrics"
	"github.com/JaimeStill/annual/pkg/module"
	"github.com/JaimeStill/annual/pkg/routing"
	"github.com/JaimeStill/annual/pkg/web"
	"github.com/JaimeStill/annual/web/app"
)

func newApp(t *testing.T, opts ...app.Option) (*app.App, http.Handler) {
	t.Helper()
	a, err := app.New("/app", opts...)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	router := module.NewRouter()
	router.Mount(a.Module())
	return a, router
}

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Compile(t *testing.T) {
	table, err := app.Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	records := table.Records()
	if len(records) != 8 {
		t.Fatalf("len(Records()) = %d, want 8", len(records))
	}

	last := records[len(records)-1]
	if !last.CatchAll {
		t.Errorf("last record %q is not the catch-all", last.Pattern)
	}
	if last.Component != "pages/ErrorNotFound" {
		t.Errorf("catch-all component = %q, want pages/ErrorNotFound", last.Component)
	}

	for _, rec := range records[:len(records)-1] {
		if len(rec.Layouts) != 1 || rec.Layouts[0] != "layouts/MainLayout" {
			t.Errorf("%s layouts = %v, want [layouts/MainLayout]", rec.Pattern, rec.Layouts)
		}
	}
}

func TestRoutes_EveryComponentExists(t *testing.T) {
	table, err := app.Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	src := web.NewFSSource(app.Components(), app.ComponentExt)
	for _, ref := range table.Components() {
		if _, err := src.Load(context.Background(), ref); err != nil {
			t.Errorf("Load(%q) error = %v", ref, err)
		}
	}
}

func TestApp_Navigation(t *testing.T) {
	_, h := newApp(t)

	tests := []struct {
		path   string
		status int
		title  string
		want   string
	}{
		{"/app", http.StatusOK, "Home · Annual", "Upload your annual reports"},
		{"/app/", http.StatusOK, "Home · Annual", "Upload your annual reports"},
		{"/app/login", http.StatusOK, "Log in · Annual", "Don't have an account?"},
		{"/app/signup", http.StatusOK, "Sign up · Annual", "Create an account"},
		{"/app/user", http.StatusOK, "Account · Annual", "Profile and session settings"},
		{"/app/workspace", http.StatusOK, "Workspace · Annual", "Documents you have indexed"},
		{"/app/docs", http.StatusOK, "Docs · Annual", "Supported document formats"},
		{"/app/dashboard", http.StatusOK, "Dashboard · Annual", "Usage across your workspaces"},
		{"/app/Login", http.StatusOK, "Log in · Annual", "Don't have an account?"},
		{"/app/totally-unknown-path", http.StatusNotFound, "Not Found · Annual", "/totally-unknown-path"},
		{"/app/a/b/c", http.StatusNotFound, "Not Found · Annual", "/a/b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, http.MethodGet, tt.path)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q, want text/html; charset=utf-8", ct)
			}

			body := rec.Body.String()
			if !strings.Contains(body, "<title>"+tt.title+"</title>") {
				t.Errorf("body missing title %q", tt.title)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestApp_LayoutWrapsPages(t *testing.T) {
	_, h := newApp(t)

	body := get(t, h, http.MethodGet, "/app/login").Body.String()

	if strings.Count(body, "<html") != 1 {
		t.Errorf("expected a single html document, got %d", strings.Count(body, "<html"))
	}
	if !strings.Contains(body, `class="shell-nav"`) {
		t.Error("layout navigation not rendered")
	}
	if !strings.Contains(body, `href="/app/signup"`) {
		t.Error("links not prefixed with the base path")
	}

	layout := strings.Index(body, `class="shell-content"`)
	page := strings.Index(body, `class="page page-login"`)
	if layout < 0 || page < layout {
		t.Error("page content not rendered inside the layout")
	}
}

func TestApp_NotFoundIsStandalone(t *testing.T) {
	_, h := newApp(t)

	body := get(t, h, http.MethodGet, "/app/nope").Body.String()

	if strings.Contains(body, `class="shell-nav"`) {
		t.Error("not-found page rendered inside the main layout")
	}
}

func TestApp_LazyLoading(t *testing.T) {
	a, h := newApp(t)

	for _, ref := range a.Table().Components() {
		if a.Views().Loaded(ref) {
			t.Fatalf("%s loaded before any navigation", ref)
		}
	}

	get(t, h, http.MethodGet, "/app/login")

	loaded := map[string]bool{
		"layouts/MainLayout":  true,
		"pages/Login":         true,
		"pages/Signup":        false,
		"pages/Dashboard":     false,
		"pages/ErrorNotFound": false,
	}
	for ref, want := range loaded {
		if got := a.Views().Loaded(ref); got != want {
			t.Errorf("Loaded(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestApp_Preload(t *testing.T) {
	a, _ := newApp(t)

	if err := a.Preload(context.Background()); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	for _, ref := range a.Table().Components() {
		if !a.Views().Loaded(ref) {
			t.Errorf("%s not loaded after Preload", ref)
		}
	}
}

func TestApp_Methods(t *testing.T) {
	_, h := newApp(t)

	head := get(t, h, http.MethodHead, "/app/docs")
	if head.Code != http.StatusOK {
		t.Errorf("HEAD status = %d, want %d", head.Code, http.StatusOK)
	}
	if head.Body.Len() != 0 {
		t.Errorf("HEAD body length = %d, want 0", head.Body.Len())
	}

	post := get(t, h, http.MethodPost, "/app/docs")
	if post.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", post.Code, http.StatusMethodNotAllowed)
	}
	if allow := post.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Errorf("Allow = %q, want %q", allow, "GET, HEAD")
	}
}

func TestApp_StaticAssets(t *testing.T) {
	_, h := newApp(t)

	tests := []struct {
		path        string
		contentType string
	}{
		{"/app/dist/app.css", "text/css"},
		{"/app/dist/app.js", "javascript"},
		{"/app/robots.txt", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, http.MethodGet, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want it to contain %q", ct, tt.contentType)
			}
		})
	}
}

func TestApp_DistDoesNotListDirectories(t *testing.T) {
	_, h := newApp(t)

	for _, path := range []string{"/app/dist/", "/app/dist"} {
		rec := get(t, h, http.MethodGet, path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
		if strings.Contains(rec.Body.String(), "app.js") {
			t.Errorf("GET %s lists dist contents", path)
		}
	}
}

func TestApp_CustomTable(t *testing.T) {
	table := routing.MustNew([]routing.Route{
		{Path: "/", Component: "Home"},
		{Path: "/:catchAll(.*)*", Component: "Missing"},
	})
	source := web.NewFSSource(fstest.MapFS{
		"Home.html":    {Data: []byte(`home {{ .Path }}`)},
		"Missing.html": {Data: []byte(`missing {{ index .Params "catchAll" }}`)},
	}, ".html")

	_, h := newApp(t, app.WithTable(table), app.WithSource(source))

	home := get(t, h, http.MethodGet, "/app")
	if home.Code != http.StatusOK || home.Body.String() != "home /" {
		t.Errorf("GET /app = %d %q, want 200 %q", home.Code, home.Body.String(), "home /")
	}

	missing := get(t, h, http.MethodGet, "/app/x/y")
	if missing.Code != http.StatusNotFound || missing.Body.String() != "missing x/y" {
		t.Errorf("GET /app/x/y = %d %q, want 404 %q", missing.Code, missing.Body.String(), "missing x/y")
	}
}

func TestApp_Metrics(t *testing.T) {
	m := metrics.New("test")
	_, h := newApp(t, app.WithMetrics(m))

	get(t, h, http.MethodGet, "/app/login")
	get(t, h, http.MethodGet, "/app/unknown")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`test_page_navigations_total{pattern="/login",status="2xx"} 1`,
		`test_page_navigations_total{pattern="/:catchAll(.*)*",status="4xx"} 1`,
		`test_component_loads_total{component="pages/Login",result="ok"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
