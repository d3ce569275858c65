// FILE: sensormerge/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter produces a JSON array of entries.
type JSONFormatter struct {
	pretty bool
	logger *log.Logger
}

// NewJSONFormatter creates a JSON array formatter; pretty indents with two spaces.
func NewJSONFormatter(pretty bool, logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{
		pretty: pretty,
		logger: logger,
	}
}

// Format encodes entries as one JSON array followed by a newline.
func (f *JSONFormatter) Format(entries []core.Entry) ([]byte, error) {
	if entries == nil {
		entries = []core.Entry{}
	}

	var result []byte
	var err error
	if f.pretty {
		result, err = json.MarshalIndent(entries, "", "  ")
	} else {
		result, err = json.Marshal(entries)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// FormatEntry encodes a single entry as compact JSON.
func (f *JSONFormatter) FormatEntry(entry core.Entry) ([]byte, error) {
	return entry.MarshalJSON()
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// ContentType returns the JSON media type.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}
