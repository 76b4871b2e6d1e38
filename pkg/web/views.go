// Package web renders page route tables as server-side HTML. Components are
// html/template sources resolved lazily: nothing is read or parsed until the
// first navigation that needs it, after which the parsed template is cached
// for the process lifetime.
package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/annual/pkg/routing"
)

const tracerName = "github.com/JaimeStill/annual/pkg/web"

// ViewData is passed to every component template. Layout shells receive the
// rendered inner component through Content.
type ViewData struct {
	Title    string
	BasePath string
	Path     string
	Params   map[string]string
	Content  template.HTML
}

// LoadObserver is notified after each component load attempt.
type LoadObserver func(component string, elapsed time.Duration, err error)

// Views resolves component references to parsed templates on demand.
// Successful loads are cached; failed loads are not, so a later navigation
// retries. Concurrent first navigations to the same component share a
// single load.
type Views struct {
	source   Source
	basePath string
	funcs    template.FuncMap
	observer LoadObserver
	tracer   trace.Tracer

	mu    sync.RWMutex
	cache map[string]*template.Template
	group singleflight.Group
}

// ViewsOption configures Views.
type ViewsOption func(*Views)

// WithLoadObserver registers fn to observe component loads.
func WithLoadObserver(fn LoadObserver) ViewsOption {
	return func(v *Views) {
		v.observer = fn
	}
}

// WithTracer overrides the tracer used for component load spans.
func WithTracer(tracer trace.Tracer) ViewsOption {
	return func(v *Views) {
		v.tracer = tracer
	}
}

// NewViews creates Views reading components from source. The basePath is
// exposed to templates as .BasePath and through the path function.
func NewViews(source Source, basePath string, opts ...ViewsOption) *Views {
	base := strings.TrimSuffix(basePath, "/")
	v := &Views{
		source:   source,
		basePath: base,
		tracer:   otel.Tracer(tracerName),
		cache:    make(map[string]*template.Template),
	}
	v.funcs = template.FuncMap{
		"path": func(p string) string {
			if p == "" || p == "/" {
				return base + "/"
			}
			return base + p
		},
	}

	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Loaded reports whether ref has been resolved and cached.
func (v *Views) Loaded(ref string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.cache[ref]
	return ok
}

// Resolve returns the parsed template for ref, loading it on first use.
func (v *Views) Resolve(ctx context.Context, ref string) (*template.Template, error) {
	if t, ok := v.cached(ref); ok {
		return t, nil
	}

	// The shared load outlives any single caller; each caller waits on its
	// own context.
	shared := context.WithoutCancel(ctx)
	ch := v.group.DoChan(ref, func() (any, error) {
		if t, ok := v.cached(ref); ok {
			return t, nil
		}
		return v.load(shared, ref)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*template.Template), nil
	}
}

// Render executes the matched component chain from the innermost page
// outwards, wrapping each result in its enclosing layout.
func (v *Views) Render(ctx context.Context, m *routing.Match) ([]byte, error) {
	chain := m.Record.Chain()

	data := ViewData{
		BasePath: v.basePath,
		Path:     m.Path,
		Params:   m.Params,
	}

	page, err := v.Resolve(ctx, chain[len(chain)-1])
	if err != nil {
		return nil, err
	}
	if title := page.Lookup("title"); title != nil {
		var buf bytes.Buffer
		if err := title.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render title %q: %w", chain[len(chain)-1], err)
		}
		data.Title = strings.TrimSpace(buf.String())
	}

	var out []byte
	for i := len(chain) - 1; i >= 0; i-- {
		t, err := v.Resolve(ctx, chain[i])
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render component %q: %w", chain[i], err)
		}
		out = buf.Bytes()
		data.Content = template.HTML(out)
	}

	return out, nil
}

// Preload resolves every component of table. It is used to fail fast at
// startup instead of on first navigation.
func (v *Views) Preload(ctx context.Context, table *routing.Table) error {
	for _, ref := range table.Components() {
		if _, err := v.Resolve(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

func (v *Views) cached(ref string) (*template.Template, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	t, ok := v.cache[ref]
	return t, ok
}

func (v *Views) load(ctx context.Context, ref string) (*template.Template, error) {
	ctx, span := v.tracer.Start(ctx, "web.ResolveComponent",
		trace.WithAttributes(attribute.String("component", ref)),
	)
	defer span.End()

	start := time.Now()
	t, err := v.parse(ctx, ref)
	if v.observer != nil {
		v.observer(ref, time.Since(start), err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	v.mu.Lock()
	v.cache[ref] = t
	v.mu.Unlock()

	return t, nil
}

func (v *Views) parse(ctx context.Context, ref string) (*template.Template, error) {
	src, err := v.source.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	t, err := template.New(ref).Funcs(v.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse component %q: %w", ref, err)
	}
	return t, nil
}
