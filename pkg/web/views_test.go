package web_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/JaimeStill/annual/pkg/routing"
	"github.com/JaimeStill/annual/pkg/web"
)

var components = fstest.MapFS{
	"layouts/Main.html":    {Data: []byte(`<main title="{{ .Title }}">{{ .Content }}</main>`)},
	"layouts/Section.html": {Data: []byte(`<section>{{ .Content }}</section>`)},
	"pages/Home.html":      {Data: []byte(`{{ define "title" }}Home{{ end }}<p>home</p>`)},
	"pages/Login.html":     {Data: []byte(`{{ define "title" }} Log in {{ end }}<a href="{{ path "/signup" }}">sign up</a>`)},
	"pages/Report.html":    {Data: []byte(`<p>report {{ index .Params "id" }}</p>`)},
	"pages/NotFound.html":  {Data: []byte(`<p>missing {{ .Path }}</p>`)},
	"pages/Broken.html":    {Data: []byte(`{{ if }}`)},
}

// countingSource records loads per reference and can hold loads until
// released or fail the first n loads.
type countingSource struct {
	src  web.Source
	gate chan struct{}

	mu    sync.Mutex
	loads map[string]int
	fails int
}

func newCountingSource() *countingSource {
	return &countingSource{
		src:   web.NewFSSource(components, ".html"),
		loads: make(map[string]int),
	}
}

func (s *countingSource) Load(ctx context.Context, ref string) ([]byte, error) {
	if s.gate != nil {
		<-s.gate
	}

	s.mu.Lock()
	s.loads[ref]++
	fail := s.fails > 0
	if fail {
		s.fails--
	}
	s.mu.Unlock()

	if fail {
		return nil, errors.New("transient")
	}
	return s.src.Load(ctx, ref)
}

func (s *countingSource) count(ref string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[ref]
}

func testTable(t *testing.T) *routing.Table {
	t.Helper()
	return routing.MustNew([]routing.Route{
		{
			Path:      "/",
			Component: "layouts/Main",
			Children: []routing.Route{
				{Path: "", Component: "pages/Home"},
				{Path: "/login", Component: "pages/Login"},
				{
					Path:      "/reports",
					Component: "layouts/Section",
					Children: []routing.Route{
						{Path: ":id", Component: "pages/Report"},
					},
				},
			},
		},
		{Path: "/:catchAll(.*)*", Component: "pages/NotFound"},
	})
}

func render(t *testing.T, v *web.Views, table *routing.Table, path string) string {
	t.Helper()
	m, err := table.Match(path)
	if err != nil {
		t.Fatalf("Match(%q) error = %v", path, err)
	}
	out, err := v.Render(context.Background(), m)
	if err != nil {
		t.Fatalf("Render(%q) error = %v", path, err)
	}
	return string(out)
}

func TestViews_Render(t *testing.T) {
	table := testTable(t)
	v := web.NewViews(web.NewFSSource(components, ".html"), "/app/")

	tests := []struct {
		path string
		want string
	}{
		{"/", `<main title="Home"><p>home</p></main>`},
		{"/login", `<main title="Log in"><a href="/app/signup">sign up</a></main>`},
		{"/reports/42", `<main title=""><section><p>report 42</p></section></main>`},
		{"/nope/deeper", `<p>missing /nope/deeper</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := render(t, v, table, tt.path); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestViews_Lazy(t *testing.T) {
	table := testTable(t)
	src := newCountingSource()
	v := web.NewViews(src, "/app")

	for _, ref := range table.Components() {
		if v.Loaded(ref) {
			t.Fatalf("%s loaded before first navigation", ref)
		}
	}

	render(t, v, table, "/login")
	render(t, v, table, "/login")
	render(t, v, table, "/")

	if n := src.count("pages/Login"); n != 1 {
		t.Errorf("pages/Login loaded %d times, want 1", n)
	}
	if n := src.count("layouts/Main"); n != 1 {
		t.Errorf("layouts/Main loaded %d times, want 1", n)
	}
	for _, ref := range []string{"pages/Report", "layouts/Section", "pages/NotFound"} {
		if v.Loaded(ref) || src.count(ref) != 0 {
			t.Errorf("%s loaded without navigation", ref)
		}
	}
}

func TestViews_FailedLoadRetries(t *testing.T) {
	src := newCountingSource()
	src.fails = 1

	var observed []error
	v := web.NewViews(src, "/app", web.WithLoadObserver(func(_ string, _ time.Duration, err error) {
		observed = append(observed, err)
	}))

	if _, err := v.Resolve(context.Background(), "pages/Home"); err == nil {
		t.Fatal("first Resolve() error = nil, want failure")
	}
	if v.Loaded("pages/Home") {
		t.Error("failed load was cached")
	}

	if _, err := v.Resolve(context.Background(), "pages/Home"); err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if !v.Loaded("pages/Home") {
		t.Error("successful load not cached")
	}

	if n := src.count("pages/Home"); n != 2 {
		t.Errorf("loads = %d, want 2", n)
	}
	if len(observed) != 2 || observed[0] == nil || observed[1] != nil {
		t.Errorf("observed = %v, want [error, nil]", observed)
	}
}

func TestViews_ConcurrentFirstLoad(t *testing.T) {
	src := newCountingSource()
	src.gate = make(chan struct{})
	v := web.NewViews(src, "/app")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := v.Resolve(context.Background(), "pages/Login")
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Resolve() error = %v", err)
		}
	}
	if n := src.count("pages/Login"); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
}

func TestViews_CancelledCallerDoesNotFailOthers(t *testing.T) {
	src := newCountingSource()
	src.gate = make(chan struct{})
	v := web.NewViews(src, "/app")

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := v.Resolve(ctx, "pages/Login")
		first <- err
	}()
	time.Sleep(20 * time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, err := v.Resolve(context.Background(), "pages/Login")
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Resolve() error = %v, want context.Canceled", err)
	}

	close(src.gate)
	if err := <-second; err != nil {
		t.Errorf("live Resolve() error = %v, want nil", err)
	}
	if !v.Loaded("pages/Login") {
		t.Error("shared load not cached")
	}
	if n := src.count("pages/Login"); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
}

func TestViews_Errors(t *testing.T) {
	v := web.NewViews(web.NewFSSource(components, ".html"), "/app")

	if _, err := v.Resolve(context.Background(), "pages/Missing"); !errors.Is(err, web.ErrComponentNotFound) {
		t.Errorf("Resolve(missing) error = %v, want ErrComponentNotFound", err)
	}
	if _, err := v.Resolve(context.Background(), "../escape"); !errors.Is(err, web.ErrComponentNotFound) {
		t.Errorf("Resolve(../escape) error = %v, want ErrComponentNotFound", err)
	}
	if _, err := v.Resolve(context.Background(), "pages/Broken"); err == nil {
		t.Error("Resolve(broken) error = nil, want parse error")
	}
}

func TestViews_Preload(t *testing.T) {
	table := testTable(t)
	v := web.NewViews(web.NewFSSource(components, ".html"), "/app")

	if err := v.Preload(context.Background(), table); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	for _, ref := range table.Components() {
		if !v.Loaded(ref) {
			t.Errorf("%s not loaded", ref)
		}
	}

	broken := routing.MustNew([]routing.Route{{Path: "/", Component: "pages/Broken"}})
	if err := v.Preload(context.Background(), broken); err == nil {
		t.Error("Preload(broken) error = nil, want error")
	}
}

func TestFSSource_CancelledContext(t *testing.T) {
	src := web.NewFSSource(components, ".html")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Load(ctx, "pages/Home"); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
