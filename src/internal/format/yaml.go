// FILE: sensormerge/src/internal/format/yaml.go
package format

import (
	"bytes"
	"fmt"

	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter renders entries as a YAML sequence of ordered mappings.
type YAMLFormatter struct {
	logger *log.Logger
}

// NewYAMLFormatter creates a YAML formatter.
func NewYAMLFormatter(logger *log.Logger) *YAMLFormatter {
	return &YAMLFormatter{
		logger: logger,
	}
}

// Format encodes entries as a single YAML document.
func (f *YAMLFormatter) Format(entries []core.Entry) ([]byte, error) {
	if entries == nil {
		entries = []core.Entry{}
	}
	return f.encode(entries)
}

// FormatEntry encodes one entry as a YAML mapping without the trailing newline.
func (f *YAMLFormatter) FormatEntry(entry core.Entry) ([]byte, error) {
	out, err := f.encode(entry)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(out, "\n"), nil
}

func (f *YAMLFormatter) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Name returns the formatter's type name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// ContentType returns the YAML media type.
func (f *YAMLFormatter) ContentType() string {
	return "application/yaml"
}
