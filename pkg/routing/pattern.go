package routing

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// defaultParamExpr matches a single path segment.
	defaultParamExpr = `[^/]+`

	// catchAllExpr matches any sequence of characters, slashes included.
	catchAllExpr = `.*`
)

type segment struct {
	static   string
	param    string
	expr     string
	modifier byte
}

// pattern is a compiled path pattern. Supported syntax is static segments,
// :name params, :name(regex) constrained params and the ?, * and + modifiers
// on params.
type pattern struct {
	raw      string
	segments []segment
	params   []string
	re       *regexp.Regexp
}

func compilePattern(raw string) (*pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, raw)
	}

	parts, err := splitPattern(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, raw, err)
	}

	p := &pattern{raw: raw}
	seen := make(map[string]bool)

	var b strings.Builder
	b.WriteString("(?i)^")

	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, raw, err)
		}

		if seg.param != "" {
			if seen[seg.param] {
				return nil, fmt.Errorf("%w: %q: duplicate param %q", ErrInvalidPattern, raw, seg.param)
			}
			seen[seg.param] = true
			p.params = append(p.params, seg.param)
		}

		p.segments = append(p.segments, seg)
		b.WriteString(seg.expression())
	}

	b.WriteString("/?$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, raw, err)
	}
	p.re = re

	return p, nil
}

// catchAll reports whether the pattern matches every path.
func (p *pattern) catchAll() bool {
	if len(p.segments) != 1 || p.segments[0].param == "" {
		return false
	}
	seg := p.segments[0]
	switch {
	case seg.expr == catchAllExpr:
		return seg.modifier == 0 || seg.modifier == '*'
	case seg.modifier == '*':
		return seg.expr == defaultParamExpr
	default:
		return false
	}
}

func (p *pattern) match(path string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(map[string]string, len(p.params))
	for i, name := range p.re.SubexpNames() {
		if name == "" {
			continue
		}
		params[name] = m[i]
	}
	return params, true
}

func (s segment) expression() string {
	if s.param == "" {
		return "/" + regexp.QuoteMeta(s.static)
	}

	inner := "(?:" + s.expr + ")"
	repeated := inner + "(?:/" + inner + ")*"
	group := func(body string) string {
		return "(?P<" + s.param + ">" + body + ")"
	}

	switch s.modifier {
	case '?':
		return "(?:/" + group(inner) + ")?"
	case '+':
		return "/" + group(repeated)
	case '*':
		return "(?:/" + group(repeated) + ")?"
	default:
		return "/" + group(inner)
	}
}

// splitPattern splits raw on slashes that are not inside a param expression.
func splitPattern(raw string) ([]string, error) {
	body := strings.TrimPrefix(raw, "/")
	if body == "" {
		return nil, nil
	}
	body = strings.TrimSuffix(body, "/")

	var (
		parts []string
		cur   strings.Builder
		depth int
	)

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && depth > 0 && i+1 < len(body):
			cur.WriteByte(c)
			i++
			cur.WriteByte(body[i])
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parenthesis")
			}
		case c == '/' && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parenthesis")
	}
	parts = append(parts, cur.String())

	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty segment")
		}
	}
	return parts, nil
}

func parseSegment(part string) (segment, error) {
	if part[0] != ':' {
		if strings.ContainsAny(part, ":()*?+") {
			return segment{}, fmt.Errorf("unsupported characters in static segment %q", part)
		}
		return segment{static: part}, nil
	}

	i := 1
	for i < len(part) && isNameByte(part[i]) {
		i++
	}
	if i == 1 {
		return segment{}, fmt.Errorf("param in %q has no name", part)
	}

	seg := segment{param: part[1:i], expr: defaultParamExpr}
	rest := part[i:]

	if strings.HasPrefix(rest, "(") {
		end := closingParen(rest)
		if end < 0 {
			return segment{}, fmt.Errorf("unterminated expression in %q", part)
		}
		expr := rest[1:end]
		if expr == "" {
			return segment{}, fmt.Errorf("empty expression in %q", part)
		}
		if _, err := regexp.Compile(expr); err != nil {
			return segment{}, fmt.Errorf("param %q: %w", seg.param, err)
		}
		seg.expr = expr
		rest = rest[end+1:]
	}

	if rest != "" {
		switch rest {
		case "?", "*", "+":
			seg.modifier = rest[0]
		default:
			return segment{}, fmt.Errorf("unexpected %q after param %q", rest, seg.param)
		}
	}

	return seg, nil
}

func closingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func joinPath(parent, child string) string {
	switch {
	case strings.HasPrefix(child, "/"):
		return child
	case child == "":
		return parent
	default:
		return strings.TrimSuffix(parent, "/") + "/" + child
	}
}
