// FILE: sensormerge/src/internal/sink/file.go
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"
	"sensormerge/src/internal/format"

	"github.com/lixenwraith/log"
)

// FileSink replaces a file with the formatted result. The document is written
// to a temporary file in the same directory and renamed into place.
type FileSink struct {
	config    *config.FileSinkOptions
	formatter format.Formatter
	startTime time.Time
	logger    *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewFileSink creates a file sink
func NewFileSink(opts *config.FileSinkOptions, formatter format.Formatter, logger *log.Logger) (*FileSink, error) {
	if opts == nil {
		return nil, fmt.Errorf("file sink options cannot be nil")
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("file sink requires a path")
	}

	fs := &FileSink{
		config:    opts,
		formatter: formatter,
		startTime: time.Now(),
		logger:    logger,
	}
	fs.lastProcessed.Store(time.Time{})

	return fs, nil
}

func (fs *FileSink) Write(ctx context.Context, entries []core.Entry) error {
	formatted, err := fs.formatter.Format(entries)
	if err != nil {
		fs.totalFailed.Add(1)
		return fmt.Errorf("file sink: %w", err)
	}

	if err := writeAtomic(fs.config.Path, formatted); err != nil {
		fs.totalFailed.Add(1)
		fs.logger.Error("msg", "Failed to write result file",
			"component", "file_sink",
			"path", fs.config.Path,
			"error", err)
		return fmt.Errorf("file sink: %w", err)
	}

	fs.totalProcessed.Add(uint64(len(entries)))
	fs.lastProcessed.Store(time.Now())

	fs.logger.Info("msg", "Result written to file",
		"component", "file_sink",
		"path", fs.config.Path,
		"format", fs.formatter.Name(),
		"entries", len(entries),
		"bytes", len(formatted))
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	return os.Rename(tmpName, path)
}

func (fs *FileSink) Stop() {
	fs.logger.Debug("msg", "File sink stopped", "component", "file_sink")
}

func (fs *FileSink) GetStats() SinkStats {
	lastProc, _ := fs.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "file",
		TotalProcessed: fs.totalProcessed.Load(),
		TotalFailed:    fs.totalFailed.Load(),
		StartTime:      fs.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"path":   fs.config.Path,
			"format": fs.formatter.Name(),
		},
	}
}
