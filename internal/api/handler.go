package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/annual/pkg/handlers"
	"github.com/JaimeStill/annual/pkg/routes"
	"github.com/JaimeStill/annual/pkg/routing"
)

// maxManifestBytes bounds manifest bodies accepted by Validate.
const maxManifestBytes = 1 << 20

// RecordView is the JSON form of a compiled route record.
type RecordView struct {
	Pattern   string   `json:"pattern"`
	Component string   `json:"component"`
	Layouts   []string `json:"layouts"`
	Params    []string `json:"params"`
	CatchAll  bool     `json:"catch_all"`
}

// Resolution is the JSON form of a path resolved against the table.
type Resolution struct {
	Path      string            `json:"path"`
	Pattern   string            `json:"pattern"`
	Component string            `json:"component"`
	Layouts   []string          `json:"layouts"`
	Params    map[string]string `json:"params"`
	CatchAll  bool              `json:"catch_all"`
}

// Handler exposes the page route table as a read-only JSON API.
type Handler struct {
	table  *routing.Table
	logger *slog.Logger
}

// NewHandler creates a handler over table.
func NewHandler(table *routing.Table, logger *slog.Logger) *Handler {
	return &Handler{
		table:  table,
		logger: logger,
	}
}

// Routes returns the handler's route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/routes",
		Tags:        []string{"Routes"},
		Description: "Page route table inspection",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Manifest, OpenAPI: manifestOp},
			{Method: "GET", Pattern: "/records", Handler: h.Records, OpenAPI: recordsOp},
			{Method: "GET", Pattern: "/resolve", Handler: h.Resolve, OpenAPI: resolveOp},
			{Method: "POST", Pattern: "/validate", Handler: h.Validate, OpenAPI: validateOp},
		},
	}
}

// Manifest writes the route table in the requested format (json by default).
func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	format, err := routing.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	var buf bytes.Buffer
	if err := routing.Encode(&buf, h.table.Manifest(), format); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondBytes(w, http.StatusOK, format.ContentType(), buf.Bytes())
}

// Records writes the flattened records in match order.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, recordViews(h.table))
}

// Resolve writes the record the path query parameter navigates to.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingPath)
		return
	}

	m, err := h.table.Match(path)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Resolution{
		Path:      m.Path,
		Pattern:   m.Record.Pattern,
		Component: m.Record.Component,
		Layouts:   nonNil(m.Record.Layouts),
		Params:    m.Params,
		CatchAll:  m.Record.CatchAll,
	})
}

// Validate compiles a manifest from the request body and writes its
// records. The format comes from the format query parameter.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	format, err := routing.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	m, err := routing.Decode(http.MaxBytesReader(w, r.Body, maxManifestBytes), format)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("decode manifest: %w", err))
		return
	}

	table, err := m.Table()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, recordViews(table))
}

func recordViews(table *routing.Table) []RecordView {
	records := table.Records()
	out := make([]RecordView, 0, len(records))
	for _, rec := range records {
		out = append(out, RecordView{
			Pattern:   rec.Pattern,
			Component: rec.Component,
			Layouts:   nonNil(rec.Layouts),
			Params:    nonNil(rec.Params()),
			CatchAll:  rec.CatchAll,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
