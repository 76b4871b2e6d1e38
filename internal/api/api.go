// Package api provides the JSON API module for inspecting the page route table.
package api

import (
	"log/slog"

	"github.com/JaimeStill/annual/internal/config"
	"github.com/JaimeStill/annual/pkg/middleware"
	"github.com/JaimeStill/annual/pkg/module"
	"github.com/JaimeStill/annual/pkg/openapi"
	"github.com/JaimeStill/annual/pkg/routes"
	"github.com/JaimeStill/annual/pkg/routing"
)

// NewModule creates the API module mounted at the configured base path. The
// module serves its own OpenAPI document at /openapi.json.
func NewModule(cfg *config.APIConfig, version string, table *routing.Table, logger *slog.Logger) (*module.Module, error) {
	spec := openapi.NewSpec(cfg.OpenAPI.Title, version)
	spec.SetDescription(cfg.OpenAPI.Description)
	spec.AddServer(cfg.BasePath)
	spec.AddSchemas(schemas)

	group := NewHandler(table, logger).Routes()
	group.AddToSpec("", spec)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}

	r := routes.New()
	r.RegisterGroup(group)
	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/openapi.json",
		Handler: openapi.ServeSpec(specBytes),
	})

	m := module.New(cfg.BasePath, r.Build())
	m.Use(middleware.CORS(&cfg.CORS))
	return m, nil
}
