package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension: .yaml and .yml
// are YAML, everything else is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Marshal encodes g. JSON output is indented.
func Marshal(g Graph, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a graph.
func Unmarshal(data []byte, f Format) (Graph, error) {
	return Read(bytes.NewReader(data), f)
}

// Write encodes g to w.
func Write(g Graph, w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// Read decodes a graph from r.
func Read(r io.Reader, f Format) (Graph, error) {
	var g Graph
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil && err != io.EOF {
			return Graph{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return Graph{}, fmt.Errorf("decode: %w", err)
		}
	}
	return g, nil
}

// ReadFile reads a graph file, choosing the format by extension.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}

// WriteFile writes g to path, choosing the format by extension.
// The file is created with 0644 permissions.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
