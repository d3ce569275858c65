// FILE: sensormerge/src/internal/sink/console.go
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"
	"sensormerge/src/internal/format"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// ConsoleSink writes the formatted result to stdout or stderr
type ConsoleSink struct {
	config    *config.ConsoleSinkOptions
	output    io.Writer
	pretty    bool
	formatter format.Formatter
	startTime time.Time
	logger    *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewConsoleSink creates a console sink. In pretty "auto" mode JSON is
// indented only when the target is a terminal.
func NewConsoleSink(opts *config.ConsoleSinkOptions, output config.OutputConfig, logger *log.Logger) (*ConsoleSink, error) {
	if opts == nil {
		return nil, fmt.Errorf("console sink options cannot be nil")
	}

	target := os.Stdout
	if opts.Target == "stderr" {
		target = os.Stderr
	}

	pretty := output.Pretty
	switch opts.Pretty {
	case config.PrettyAlways:
		pretty = true
	case config.PrettyNever:
		pretty = false
	case config.PrettyAuto:
		pretty = term.IsTerminal(int(target.Fd()))
	}

	formatter, err := format.New(output.Format, pretty, logger)
	if err != nil {
		return nil, err
	}

	s := &ConsoleSink{
		config:    opts,
		output:    target,
		pretty:    pretty,
		formatter: formatter,
		startTime: time.Now(),
		logger:    logger,
	}
	s.lastProcessed.Store(time.Time{})

	return s, nil
}

func (s *ConsoleSink) Write(ctx context.Context, entries []core.Entry) error {
	formatted, err := s.formatter.Format(entries)
	if err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("console sink: %w", err)
	}

	if _, err := s.output.Write(formatted); err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("console sink: %w", err)
	}

	s.totalProcessed.Add(uint64(len(entries)))
	s.lastProcessed.Store(time.Now())

	s.logger.Debug("msg", "Result written to console",
		"component", "console_sink",
		"target", s.config.Target,
		"entries", len(entries))
	return nil
}

func (s *ConsoleSink) Stop() {
	s.logger.Debug("msg", "Console sink stopped", "component", "console_sink")
}

func (s *ConsoleSink) GetStats() SinkStats {
	lastProc, _ := s.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "console",
		TotalProcessed: s.totalProcessed.Load(),
		TotalFailed:    s.totalFailed.Load(),
		StartTime:      s.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"target": s.config.Target,
			"pretty": s.pretty,
			"format": s.formatter.Name(),
		},
	}
}
