package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/annual/pkg/openapi"
)

func TestSpec_MarshalJSON(t *testing.T) {
	spec := openapi.NewSpec("Annual API", "1.2.3")
	spec.SetDescription("routes")
	spec.AddServer("http://localhost:8080/api")
	spec.AddSchemas(map[string]*openapi.Schema{
		"Error": {Type: "object", Properties: map[string]*openapi.Property{"error": {Type: "string"}}},
	})
	spec.AddOperation("/routes", http.MethodGet, &openapi.Operation{
		Summary:    "Manifest",
		Parameters: []*openapi.Parameter{openapi.QueryParam("format", "string", "encoding", false)},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("OK", openapi.ArrayOf("Record")),
			400: openapi.ResponseError("bad format"),
		},
	})
	spec.AddOperation("/routes", http.MethodPatch, &openapi.Operation{Summary: "ignored"})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title       string `json:"title"`
			Version     string `json:"version"`
			Description string `json:"description"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]map[string]struct {
			Summary   string                    `json:"summary"`
			Responses map[string]map[string]any `json:"responses"`
		} `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.OpenAPI != openapi.Version {
		t.Errorf("openapi = %q, want %q", doc.OpenAPI, openapi.Version)
	}
	if doc.Info.Title != "Annual API" || doc.Info.Version != "1.2.3" || doc.Info.Description != "routes" {
		t.Errorf("info = %+v", doc.Info)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "http://localhost:8080/api" {
		t.Errorf("servers = %+v", doc.Servers)
	}

	ops := doc.Paths["/routes"]
	if len(ops) != 1 || ops["get"].Summary != "Manifest" {
		t.Errorf("paths[/routes] = %+v, want only get", ops)
	}
	if _, ok := ops["get"].Responses["400"]; !ok {
		t.Error("400 response missing")
	}
	if _, ok := doc.Components.Schemas["Error"]; !ok {
		t.Error("Error schema missing")
	}
}

func TestServeSpec(t *testing.T) {
	w := httptest.NewRecorder()
	openapi.ServeSpec([]byte(`{"openapi":"3.1.0"}`))(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if w.Body.String() != `{"openapi":"3.1.0"}` {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	cfg := &openapi.Config{}
	cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE", Description: "TEST_OPENAPI_DESCRIPTION"})

	if cfg.Title != "Custom" {
		t.Errorf("Title = %q, want Custom", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("Description default not applied")
	}
}
