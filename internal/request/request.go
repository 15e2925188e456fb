// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package request loads and validates the input contract of a run:
//
//	{
//	  "documents": [{"filename": "guide.pdf", "title": "Guide"}],
//	  "persona": {"role": "Travel Planner"},
//	  "job_to_be_done": {"task": "Plan a trip of 4 days"}
//	}
//
// JSON and YAML encodings are accepted. A request missing any of the
// documents list, persona role, job task, or a document filename is
// rejected with types.ErrMalformedInput. Empty role or task strings are
// allowed and produce an empty query.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/persona-digest/pkg/types"
)

// Supported encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads a request file. The encoding is chosen from the extension:
// .yaml and .yml are YAML, anything else is JSON.
func Load(path string) (types.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Request{}, fmt.Errorf("reading request %s: %w", path, err)
	}
	req, err := Decode(bytes.NewReader(data), FormatFor(path))
	if err != nil {
		return types.Request{}, fmt.Errorf("loading request %s: %w", path, err)
	}
	return req, nil
}

// FormatFor returns the request encoding implied by a file name.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses and validates a request in the given format.
func Decode(r io.Reader, format string) (types.Request, error) {
	var req types.Request
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return types.Request{}, fmt.Errorf("%w: decoding json: %w", types.ErrMalformedInput, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&req); err != nil {
			return types.Request{}, fmt.Errorf("%w: decoding yaml: %w", types.ErrMalformedInput, err)
		}
	default:
		return types.Request{}, fmt.Errorf("%w: unknown request format %q", types.ErrMalformedInput, format)
	}
	if err := Validate(req); err != nil {
		return types.Request{}, err
	}
	return req, nil
}

// Validate checks that every required field of req is present.
func Validate(req types.Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", types.ErrMalformedInput, err)
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fieldPath(fe.Namespace())
	}
	return fmt.Errorf("%w: missing %s", types.ErrMalformedInput, strings.Join(fields, ", "))
}

// fieldPath drops the root type name from a validator namespace, turning
// "Request.persona.role" into "persona.role".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
