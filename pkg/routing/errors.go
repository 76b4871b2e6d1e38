// Package routing models an ordered table of page routes: URL path patterns
// mapped to lazily resolved component references, optionally nested under a
// layout shell. Tables are validated and compiled once and are read-only
// afterwards; matching walks the records in declaration order and stops at the
// first match, so the position of the catch-all route is significant.
package routing

import "errors"

// Table errors returned by New, Match and the manifest codec.
var (
	// ErrCatchAllNotLast indicates a catch-all route is followed by a sibling.
	// Any route after it would be unreachable.
	ErrCatchAllNotLast = errors.New("routing: catch-all route must be the last entry")

	// ErrDuplicatePath indicates two sibling routes share the same path.
	ErrDuplicatePath = errors.New("routing: duplicate sibling path")

	// ErrMissingComponent indicates a route has neither a component nor children.
	ErrMissingComponent = errors.New("routing: route has no component")

	// ErrInvalidPattern indicates a path pattern could not be compiled.
	ErrInvalidPattern = errors.New("routing: invalid path pattern")

	// ErrNoMatch indicates no route matched the requested path.
	ErrNoMatch = errors.New("routing: no route matches path")

	// ErrUnknownFormat indicates an unsupported manifest encoding.
	ErrUnknownFormat = errors.New("routing: unknown manifest format")
)
