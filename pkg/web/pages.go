package web

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/annual/pkg/routing"
)

// NavigationObserver is notified after each page navigation with the match
// (nil when nothing matched) and the response status.
type NavigationObserver func(m *routing.Match, status int)

// Pages serves a route table. Matched pages render with 200, the catch-all
// renders with 404, and a table without a catch-all answers unmatched
// paths with a plain 404.
type Pages struct {
	table    *routing.Table
	views    *Views
	logger   *slog.Logger
	observer NavigationObserver
}

// NewPages creates a handler serving table through views.
func NewPages(table *routing.Table, views *Views, logger *slog.Logger) *Pages {
	return &Pages{
		table:  table,
		views:  views,
		logger: logger,
	}
}

// OnNavigate registers fn to observe navigations.
func (p *Pages) OnNavigate(fn NavigationObserver) {
	p.observer = fn
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	m, err := p.table.Match(r.URL.Path)
	if err != nil {
		p.observe(nil, http.StatusNotFound)
		http.NotFound(w, r)
		return
	}

	body, err := p.views.Render(r.Context(), m)
	if err != nil {
		p.logger.Error("render page",
			"path", m.Path,
			"pattern", m.Record.Pattern,
			"component", m.Record.Component,
			"error", err,
		)
		p.observe(m, http.StatusInternalServerError)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if m.NotFound() {
		status = http.StatusNotFound
	}

	p.observe(m, status)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(body)
	}
}

func (p *Pages) observe(m *routing.Match, status int) {
	if p.observer != nil {
		p.observer(m, status)
	}
}
