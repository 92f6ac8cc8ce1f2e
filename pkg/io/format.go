package io

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/graph"
)

// Format identifies a graph file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatTOML, FormatHCL}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidFormat, "unsupported graph file extension %q (use .json, .toml or .hcl)", filepath.Ext(path))
}

// Read decodes a graph in the given format. name is used in diagnostics.
func Read(r io.Reader, f Format, name string) (*graph.Graph, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatHCL:
		return ReadHCL(r, name)
	}
	return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Write encodes g in the given format.
func Write(g *graph.Graph, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatTOML:
		return WriteTOML(g, w)
	case FormatHCL:
		return WriteHCL(g, w)
	}
	return perrors.New(perrors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Load reads the graph file at path, choosing the decoder by extension.
func Load(path string) (*graph.Graph, error) {
	if err := perrors.ValidateGraphPath(path); err != nil {
		return nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	g, err := Read(bytes.NewReader(data), f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Save writes g to path in the format implied by its extension.
func Save(g *graph.Graph, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return Write(g, out, f)
}
