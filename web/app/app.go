// Package app provides the Annual web application module: its page route
// table, the embedded component templates, and static assets.
package app

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/JaimeStill/annual/pkg/logging"
	"github.com/JaimeStill/annual/pkg/metrics"
	"github.com/JaimeStill/annual/pkg/module"
	"github.com/JaimeStill/annual/pkg/routing"
	"github.com/JaimeStill/annual/pkg/web"
)

//go:embed dist/*
var distFS embed.FS

//go:embed public/*
var publicFS embed.FS

//go:embed server/layouts/* server/pages/*
var componentFS embed.FS

// ComponentExt is the file extension of component templates.
const ComponentExt = ".html"

var publicFiles = []string{
	"robots.txt",
	"site.webmanifest",
}

// Routes returns the Annual page route table. Every page renders inside the
// main layout; unknown paths fall through to the not-found page.
func Routes() []routing.Route {
	return []routing.Route{
		{
			Path:      "/",
			Component: "layouts/MainLayout",
			Children: []routing.Route{
				{Path: "", Component: "pages/IndexPage"},
				{Path: "/login", Component: "pages/Login"},
				{Path: "/signup", Component: "pages/Signup"},
				{Path: "/user", Component: "pages/User"},
				{Path: "/workspace", Component: "pages/Workspace"},
				{Path: "/docs", Component: "pages/Docs"},
				{Path: "/dashboard", Component: "pages/Dashboard"},
			},
		},
		{
			Path:      "/:catchAll(.*)*",
			Component: "pages/ErrorNotFound",
		},
	}
}

// Table compiles Routes.
func Table() (*routing.Table, error) {
	return routing.New(Routes())
}

// Components returns the embedded component sources rooted so that a
// reference such as "pages/Login" resolves to "pages/Login.html".
func Components() fs.FS {
	sub, err := fs.Sub(componentFS, "server")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures the app module.
type Option func(*options)

type options struct {
	table   *routing.Table
	source  web.Source
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// WithTable serves table instead of the built-in Routes.
func WithTable(table *routing.Table) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithSource reads components from source instead of the embedded templates.
func WithSource(source web.Source) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithLogger sets the logger used for render failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records component loads and navigations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// App is the assembled web application.
type App struct {
	module *module.Module
	table  *routing.Table
	views  *web.Views
	pages  *web.Pages
}

// New creates the app mounted at basePath.
func New(basePath string, opts ...Option) (*App, error) {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.table == nil {
		table, err := Table()
		if err != nil {
			return nil, err
		}
		o.table = table
	}
	if o.source == nil {
		o.source = web.NewFSSource(Components(), ComponentExt)
	}

	var viewOpts []web.ViewsOption
	if o.metrics != nil {
		viewOpts = append(viewOpts, web.WithLoadObserver(o.metrics.ObserveLoad))
	}
	views := web.NewViews(o.source, basePath, viewOpts...)

	pages := web.NewPages(o.table, views, o.logger)
	if o.metrics != nil {
		pages.OnNavigate(o.metrics.ObserveNavigation)
	}

	router, err := buildRouter(pages)
	if err != nil {
		return nil, err
	}

	return &App{
		module: module.New(basePath, router),
		table:  o.table,
		views:  views,
		pages:  pages,
	}, nil
}

// NewModule creates the app module configured for the given base path.
func NewModule(basePath string, opts ...Option) (*module.Module, error) {
	a, err := New(basePath, opts...)
	if err != nil {
		return nil, err
	}
	return a.Module(), nil
}

// Module returns the mountable module.
func (a *App) Module() *module.Module {
	return a.module
}

// Table returns the page route table being served.
func (a *App) Table() *routing.Table {
	return a.table
}

// Views returns the component resolver.
func (a *App) Views() *web.Views {
	return a.views
}

// Preload resolves every component of the table ahead of navigation.
func (a *App) Preload(ctx context.Context) error {
	return a.views.Preload(ctx, a.table)
}

func buildRouter(pages *web.Pages) (*web.Router, error) {
	r := web.NewRouter()
	r.SetFallback(pages.ServeHTTP)

	dist, err := web.DistRoutes(distFS, "dist", "/dist")
	if err != nil {
		return nil, err
	}
	public := web.PublicFileRoutes(publicFS, "public", publicFiles...)

	for _, route := range append(dist, public...) {
		r.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}

	return r, nil
}
