// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact writes run results to disk as JSON, YAML, or rows in a
// SQLite database that accumulates runs and can be searched later.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/persona-digest/pkg/types"
)

// Supported artifact formats.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// jsonIndent matches the four-space layout consumers of the output expect.
const jsonIndent = "    "

// FormatFor infers the artifact format from a file extension. Unknown
// extensions are JSON.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatJSON
	}
}

// Write stores res at path in the given format. An empty format is
// inferred from path. JSON and YAML files are replaced; SQLite databases
// gain one run.
func Write(ctx context.Context, path, format string, res *types.Result) error {
	if format == "" {
		format = FormatFor(path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	switch format {
	case FormatJSON, FormatYAML:
		return writeFile(path, format, res)
	case FormatSQLite:
		s, err := Open(path)
		if err != nil {
			return err
		}
		defer s.Close()
		_, err = s.SaveRun(ctx, res)
		return err
	default:
		return fmt.Errorf("unsupported format %q: use json, yaml or sqlite", format)
	}
}

func writeFile(path, format string, res *types.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if format == FormatYAML {
		return WriteYAML(f, res)
	}
	return WriteJSON(f, res)
}

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res *types.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteYAML encodes res as YAML.
func WriteYAML(w io.Writer, res *types.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}

// Read loads a JSON or YAML result file.
func Read(path string) (*types.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var res types.Result
	switch FormatFor(path) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &res)
	case FormatJSON:
		err = json.Unmarshal(data, &res)
	default:
		return nil, fmt.Errorf("%s is a database; use Open", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &res, nil
}
