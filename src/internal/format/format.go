// FILE: sensormerge/src/internal/format/format.go
package format

import (
	"fmt"

	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for encoding merged entries.
type Formatter interface {
	// Format encodes the whole collection as one document.
	Format(entries []core.Entry) ([]byte, error)

	// FormatEntry encodes a single entry without a trailing newline.
	FormatEntry(entry core.Entry) ([]byte, error)

	// Name returns the formatter type name
	Name() string

	// ContentType returns the media type of documents produced by Format
	ContentType() string
}

// New creates a new Formatter by name. An empty name selects json.
func New(name string, pretty bool, logger *log.Logger) (Formatter, error) {
	if name == "" {
		name = "json"
	}

	switch name {
	case "json":
		return NewJSONFormatter(pretty, logger), nil
	case "ndjson":
		return NewNDJSONFormatter(logger), nil
	case "yaml":
		return NewYAMLFormatter(logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
