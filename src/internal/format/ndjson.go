// FILE: sensormerge/src/internal/format/ndjson.go
package format

import (
	"bytes"
	"fmt"

	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
)

// NDJSONFormatter writes one compact JSON object per line
type NDJSONFormatter struct {
	logger *log.Logger
}

// Creates a new newline-delimited JSON formatter
func NewNDJSONFormatter(logger *log.Logger) *NDJSONFormatter {
	return &NDJSONFormatter{
		logger: logger,
	}
}

// Returns every entry on its own line; an empty collection yields no bytes
func (f *NDJSONFormatter) Format(entries []core.Entry) ([]byte, error) {
	var buf bytes.Buffer
	for i, entry := range entries {
		line, err := entry.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Returns the compact JSON of one entry
func (f *NDJSONFormatter) FormatEntry(entry core.Entry) ([]byte, error) {
	return entry.MarshalJSON()
}

// Returns the formatter name
func (f *NDJSONFormatter) Name() string {
	return "ndjson"
}

// Returns the NDJSON media type
func (f *NDJSONFormatter) ContentType() string {
	return "application/x-ndjson"
}
