package main

import (
	"net/http"

	"github.com/JaimeStill/annual/internal/api"
	"github.com/JaimeStill/annual/internal/config"
	"github.com/JaimeStill/annual/internal/infrastructure"
	"github.com/JaimeStill/annual/pkg/middleware"
	"github.com/JaimeStill/annual/pkg/module"
	"github.com/JaimeStill/annual/web/app"
)

const tracerName = "github.com/JaimeStill/annual"

// Modules holds the mounted service modules.
type Modules struct {
	API *module.Module
	App *app.App
}

// NewModules builds the app and API modules over the shared route table.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	appOpts := []app.Option{
		app.WithTable(infra.Table),
		app.WithLogger(infra.Logger),
	}
	if infra.Metrics != nil {
		appOpts = append(appOpts, app.WithMetrics(infra.Metrics))
	}

	webApp, err := app.New(cfg.App.BasePath, appOpts...)
	if err != nil {
		return nil, err
	}
	applyMiddleware(webApp.Module(), infra, "app")

	apiModule, err := api.NewModule(&cfg.API, version, infra.Table, infra.Logger)
	if err != nil {
		return nil, err
	}
	applyMiddleware(apiModule, infra, "api")

	return &Modules{
		API: apiModule,
		App: webApp,
	}, nil
}

// Mount registers every module on router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App.Module())
}

func applyMiddleware(m *module.Module, infra *infrastructure.Infrastructure, name string) {
	stack := middleware.New()
	stack.Use(middleware.RequestID())
	stack.Use(middleware.Trace(tracerName))
	stack.Use(middleware.Logger(infra.Logger))
	if infra.Metrics != nil {
		stack.Use(middleware.Metrics(infra.Metrics, name))
	}
	m.Use(stack.Apply)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.App.BasePath+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	if infra.Metrics != nil {
		router.HandleNative("GET "+cfg.Metrics.Path, infra.Metrics.Handler().ServeHTTP)
	}

	return router
}
