package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	// OutputFormatText is the default human-readable format.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON outputs data as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML outputs data as YAML.
	OutputFormatYAML OutputFormat = "yaml"
)

// OutputWriter handles formatted output.
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates a new OutputWriter writing to w.
func NewOutputWriter(format OutputFormat, w io.Writer) *OutputWriter {
	return &OutputWriter{
		format: format,
		writer: w,
	}
}

// WriteJSON writes data as indented JSON.
func (o *OutputWriter) WriteJSON(data any) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML.
func (o *OutputWriter) WriteYAML(data any) error {
	encoder := yaml.NewEncoder(o.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes data according to the configured format.
// textFunc renders the text output; data is used for JSON and YAML.
func (o *OutputWriter) Write(data any, textFunc func(w io.Writer)) error {
	switch o.format {
	case OutputFormatJSON:
		return o.WriteJSON(data)
	case OutputFormatYAML:
		return o.WriteYAML(data)
	default:
		textFunc(o.writer)
		return nil
	}
}

// IsStructured returns true if output is JSON or YAML.
func (o *OutputWriter) IsStructured() bool {
	return o.format == OutputFormatJSON || o.format == OutputFormatYAML
}

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return OutputFormatText, nil
	case "json":
		return OutputFormatJSON, nil
	case "yaml", "yml":
		return OutputFormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be 'text', 'json' or 'yaml'", s)
	}
}
