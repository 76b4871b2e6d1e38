package web

import (
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/JaimeStill/annual/pkg/routes"
)

// DistRoutes builds a GET route under prefix for each file of subdir in
// fsys. Directories get no route, so they are never listed.
func DistRoutes(fsys fs.FS, subdir, prefix string) ([]routes.Route, error) {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return nil, err
	}

	var out []routes.Route
	err = fs.WalkDir(sub, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		out = append(out, routes.Route{
			Method:  "GET",
			Pattern: path.Join(prefix, name),
			Handler: func(w http.ResponseWriter, r *http.Request) {
				http.ServeFileFS(w, r, sub, name)
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", subdir, err)
	}
	return out, nil
}

// PublicFile returns a handler serving a single file from subdir of fsys.
func PublicFile(fsys fs.FS, subdir, name string) http.HandlerFunc {
	data, err := fs.ReadFile(fsys, path.Join(subdir, name))
	if err != nil {
		return http.NotFound
	}
	return ServeEmbeddedFile(data, contentType(name))
}

// PublicFileRoutes builds a GET route at the root for each named file.
func PublicFileRoutes(fsys fs.FS, subdir string, names ...string) []routes.Route {
	out := make([]routes.Route, 0, len(names))
	for _, name := range names {
		out = append(out, routes.Route{
			Method:  "GET",
			Pattern: "/" + name,
			Handler: PublicFile(fsys, subdir, name),
		})
	}
	return out
}

// ServeEmbeddedFile returns a handler writing data with the given content type.
func ServeEmbeddedFile(data []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
