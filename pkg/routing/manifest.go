package routing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a manifest encoding.
type Format string

// Supported manifest formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the Format named by s. An empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the media type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatTOML:
		return "application/toml; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Manifest is the serialized form of a route table.
type Manifest struct {
	Routes []Route `json:"routes" toml:"routes" yaml:"routes"`
}

// Manifest exports the table's declared routes.
func (t *Table) Manifest() Manifest {
	return Manifest{Routes: t.Routes()}
}

// Table validates and compiles the manifest routes.
func (m Manifest) Table(opts ...Option) (*Table, error) {
	return New(m.Routes, opts...)
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, m Manifest, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Decode reads a manifest in the given format from r.
func Decode(r io.Reader, f Format) (Manifest, error) {
	var m Manifest
	var err error

	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&m)
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(&m)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&m)
	default:
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	if err != nil {
		return Manifest{}, fmt.Errorf("decode %s manifest: %w", f, err)
	}
	return m, nil
}

// LoadFile reads, decodes and compiles a manifest file. The format is
// inferred from the file extension.
func LoadFile(path string, opts ...Option) (*Table, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	m, err := Decode(file, f)
	if err != nil {
		return nil, err
	}

	t, err := m.Table(opts...)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return t, nil
}
