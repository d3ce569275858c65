// FILE: sensormerge/src/internal/sink/sink.go
package sink

import (
	"context"
	"fmt"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"
	"sensormerge/src/internal/format"

	"github.com/lixenwraith/log"
)

// Sink represents a delivery target for the merged result
type Sink interface {
	// Write delivers the complete merged collection
	Write(ctx context.Context, entries []core.Entry) error

	// Stop releases connections and flushes buffered output
	Stop()

	// GetStats returns sink statistics
	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type           string
	TotalProcessed uint64
	TotalFailed    uint64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// RunInfo identifies the run whose result is being delivered
type RunInfo struct {
	RunID  string
	Digest string
}

// New creates a sink from its typed configuration. The output section supplies
// the default encoding for sinks that write whole documents.
func New(cfg config.SinkConfig, output config.OutputConfig, run RunInfo, logger *log.Logger) (Sink, error) {
	cfg.ApplyDefaults()

	switch cfg.Type {
	case "console":
		return NewConsoleSink(cfg.Console, output, logger)
	case "file":
		if cfg.File == nil {
			return nil, fmt.Errorf("file sink options cannot be nil")
		}
		name := cfg.File.Format
		if name == "" {
			name = output.Format
		}
		formatter, err := format.New(name, output.Pretty, logger)
		if err != nil {
			return nil, err
		}
		return NewFileSink(cfg.File, formatter, logger)
	case "archive":
		return NewArchiveSink(cfg.Archive, logger)
	case "http":
		return NewHTTPSink(cfg.HTTP, run, logger)
	case "kafka":
		return NewKafkaSink(cfg.Kafka, run, logger)
	case "mqtt":
		return NewMQTTSink(cfg.MQTT, run, logger)
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
}
