package common

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(v string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(v)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", apperrors.Newf(apperrors.ErrConfig, "unknown format %q (text, json, yaml)", v)
	}
}

// WriteStructured encodes v as JSON or YAML.
func WriteStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return apperrors.Newf(apperrors.ErrConfig, "format %q is not structured", format)
	}
}
