package api

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/annual/pkg/routing"
)

// ErrMissingPath indicates a resolve request without a path query parameter.
var ErrMissingPath = errors.New("path query parameter is required")

// MapHTTPStatus maps routing and request errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingPath),
		errors.Is(err, routing.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, routing.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, routing.ErrCatchAllNotLast),
		errors.Is(err, routing.ErrDuplicatePath),
		errors.Is(err, routing.ErrMissingComponent),
		errors.Is(err, routing.ErrInvalidPattern):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
