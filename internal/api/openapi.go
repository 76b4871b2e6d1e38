package api

import "github.com/JaimeStill/annual/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"Route": {
		Type:        "object",
		Description: "A declared page route. Routes with children are layouts.",
		Required:    []string{"path"},
		Properties: map[string]*openapi.Property{
			"path":      {Type: "string", Example: "/login"},
			"component": {Type: "string", Example: "pages/Login"},
			"children":  {Type: "array", Items: openapi.SchemaRef("Route")},
		},
	},
	"Manifest": {
		Type:     "object",
		Required: []string{"routes"},
		Properties: map[string]*openapi.Property{
			"routes": {Type: "array", Items: openapi.SchemaRef("Route")},
		},
	},
	"Record": {
		Type:        "object",
		Description: "A navigable route flattened into match order.",
		Properties: map[string]*openapi.Property{
			"pattern":   {Type: "string", Example: "/:catchAll(.*)*"},
			"component": {Type: "string", Example: "pages/ErrorNotFound"},
			"layouts":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"params":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"catch_all": {Type: "boolean"},
		},
	},
	"Resolution": {
		Type: "object",
		Properties: map[string]*openapi.Property{
			"path":      {Type: "string", Example: "/totally-unknown-path"},
			"pattern":   {Type: "string"},
			"component": {Type: "string"},
			"layouts":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"params":    {Type: "object"},
			"catch_all": {Type: "boolean"},
		},
	},
	"Error": {
		Type:     "object",
		Required: []string{"error"},
		Properties: map[string]*openapi.Property{
			"error": {Type: "string"},
		},
	},
}

var formatParam = &openapi.Parameter{
	Name:        "format",
	In:          "query",
	Description: "Manifest encoding",
	Schema:      &openapi.Schema{Type: "string", Description: "json, toml or yaml"},
}

var manifestOp = &openapi.Operation{
	Summary:    "Get the route manifest",
	Parameters: []*openapi.Parameter{formatParam},
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Route manifest",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.SchemaRef("Manifest")},
				"application/toml": {Schema: &openapi.Schema{Type: "string"}},
				"application/yaml": {Schema: &openapi.Schema{Type: "string"}},
			},
		},
		400: openapi.ResponseError("Unknown format"),
	},
}

var recordsOp = &openapi.Operation{
	Summary: "List records in match order",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Flattened records", openapi.ArrayOf("Record")),
	},
}

var resolveOp = &openapi.Operation{
	Summary:     "Resolve a path",
	Description: "Returns the first record matching path. Unknown paths resolve to the catch-all when the table has one.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("path", "string", "Path to resolve, relative to the app base path", true),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Resolved record", openapi.SchemaRef("Resolution")),
		400: openapi.ResponseError("Missing path"),
		404: openapi.ResponseError("No route matches and no catch-all is declared"),
	},
}

var validateOp = &openapi.Operation{
	Summary:     "Validate a route manifest",
	Parameters:  []*openapi.Parameter{formatParam},
	RequestBody: openapi.RequestBodyContent("Manifest to validate", "application/json", "application/toml", "application/yaml"),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Compiled records", openapi.ArrayOf("Record")),
		400: openapi.ResponseError("Malformed manifest or unknown format"),
		422: openapi.ResponseError("Manifest fails validation"),
	},
}
