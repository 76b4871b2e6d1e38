package routing

import "fmt"

// Match is the result of resolving a path against a table.
type Match struct {
	Path   string
	Record Record
	Params map[string]string
}

// NotFound reports whether the path fell through to the catch-all route.
func (m *Match) NotFound() bool {
	return m.Record.CatchAll
}

// Match resolves path against the records in declaration order and returns
// the first match. A catch-all only wins when nothing before it matched.
func (t *Table) Match(path string) (*Match, error) {
	if path == "" {
		path = "/"
	}

	for _, r := range t.records {
		params, ok := r.pattern.match(path)
		if !ok {
			continue
		}
		r.Layouts = append([]string(nil), r.Layouts...)
		return &Match{
			Path:   path,
			Record: r,
			Params: params,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrNoMatch, path)
}
