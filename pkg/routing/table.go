package routing

import (
	"fmt"
	"slices"
)

// Route maps a URL path pattern to a component reference. A route with
// children acts as a layout shell: its component wraps whichever child
// matches. Child paths starting with "/" are absolute, others are joined to
// the parent path, and "" denotes the parent path itself.
type Route struct {
	Path      string  `json:"path" toml:"path" yaml:"path"`
	Component string  `json:"component,omitempty" toml:"component,omitempty" yaml:"component,omitempty"`
	Children  []Route `json:"children,omitempty" toml:"children,omitempty" yaml:"children,omitempty"`
}

// Record is a navigable entry of a compiled table. Layouts lists the
// component references of the enclosing layout shells, outermost first.
type Record struct {
	Pattern   string
	Component string
	Layouts   []string
	CatchAll  bool

	pattern *pattern
}

// Chain returns the layouts followed by the record's own component.
func (r Record) Chain() []string {
	chain := make([]string, 0, len(r.Layouts)+1)
	chain = append(chain, r.Layouts...)
	return append(chain, r.Component)
}

// Params returns the names of the params declared by the pattern.
func (r Record) Params() []string {
	if r.pattern == nil {
		return nil
	}
	return slices.Clone(r.pattern.params)
}

// Table is a validated, compiled and immutable route table.
type Table struct {
	routes  []Route
	records []Record
}

// Option adjusts table construction.
type Option func(*options)

type options struct {
	allowMisplacedCatchAll bool
}

// AllowMisplacedCatchAll disables the check that a catch-all route is the last
// of its siblings and the last record of the table. Routes following the
// catch-all become unreachable.
func AllowMisplacedCatchAll() Option {
	return func(o *options) {
		o.allowMisplacedCatchAll = true
	}
}

// New validates and compiles routes into a Table. The input is copied, so
// later changes by the caller do not affect the table.
func New(routes []Route, opts ...Option) (*Table, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table{routes: cloneRoutes(routes)}

	if err := t.compile(t.routes, "", nil, o); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// tables declared in source.
func MustNew(routes []Route, opts ...Option) *Table {
	t, err := New(routes, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns a copy of the declared routes in order.
func (t *Table) Routes() []Route {
	return cloneRoutes(t.routes)
}

// Records returns the navigable records in match order.
func (t *Table) Records() []Record {
	records := make([]Record, len(t.records))
	for i, r := range t.records {
		r.Layouts = slices.Clone(r.Layouts)
		records[i] = r
	}
	return records
}

// Len returns the number of navigable records.
func (t *Table) Len() int {
	return len(t.records)
}

// CatchAll returns the first catch-all record, if the table has one.
func (t *Table) CatchAll() (Record, bool) {
	for _, r := range t.records {
		if r.CatchAll {
			return r, true
		}
	}
	return Record{}, false
}

// Components returns every distinct component reference in the table,
// layouts included, in first-seen order.
func (t *Table) Components() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, r := range t.records {
		for _, ref := range r.Chain() {
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

func (t *Table) compile(siblings []Route, parent string, layouts []string, o options) error {
	seen := make(map[string]bool, len(siblings))

	for i, route := range siblings {
		if parent == "" && len(route.Path) > 0 && route.Path[0] != '/' {
			return fmt.Errorf("%w: top-level path %q must start with /", ErrInvalidPattern, route.Path)
		}

		if seen[route.Path] {
			return fmt.Errorf("%w: %q", ErrDuplicatePath, route.Path)
		}
		seen[route.Path] = true

		if route.Component == "" && len(route.Children) == 0 {
			return fmt.Errorf("%w: %q", ErrMissingComponent, route.Path)
		}

		full := route.Path
		if parent != "" {
			full = joinPath(parent, route.Path)
		}

		p, err := compilePattern(full)
		if err != nil {
			return err
		}

		if p.catchAll() && i != len(siblings)-1 && !o.allowMisplacedCatchAll {
			return fmt.Errorf("%w: %q is followed by %q", ErrCatchAllNotLast, route.Path, siblings[i+1].Path)
		}

		if len(route.Children) > 0 {
			nested := layouts
			if route.Component != "" {
				nested = append(slices.Clone(layouts), route.Component)
			}
			if err := t.compile(route.Children, full, nested, o); err != nil {
				return err
			}
			continue
		}

		if last, ok := t.lastRecord(); ok && last.CatchAll && !o.allowMisplacedCatchAll {
			return fmt.Errorf("%w: %q is followed by %q", ErrCatchAllNotLast, last.Pattern, full)
		}

		t.records = append(t.records, Record{
			Pattern:   full,
			Component: route.Component,
			Layouts:   slices.Clone(layouts),
			CatchAll:  p.catchAll(),
			pattern:   p,
		})
	}

	return nil
}

func (t *Table) lastRecord() (Record, bool) {
	if len(t.records) == 0 {
		return Record{}, false
	}
	return t.records[len(t.records)-1], true
}

// IsCatchAll reports whether path is a pattern that matches every path.
func IsCatchAll(path string) bool {
	p, err := compilePattern(path)
	if err != nil {
		return false
	}
	return p.catchAll()
}

func cloneRoutes(routes []Route) []Route {
	if routes == nil {
		return nil
	}
	out := make([]Route, len(routes))
	for i, r := range routes {
		out[i] = Route{
			Path:      r.Path,
			Component: r.Component,
			Children:  cloneRoutes(r.Children),
		}
	}
	return out
}
