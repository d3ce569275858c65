// FILE: sensormerge/src/internal/sink/archive.go
package sink

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
)

// ArchiveSink appends merged entries as NDJSON lines to a rotating archive
type ArchiveSink struct {
	config    *config.ArchiveSinkOptions
	writer    *log.Logger // Internal logger instance for file writing
	startTime time.Time
	logger    *log.Logger // Application logger

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// Creates a new archive sink and starts its writer
func NewArchiveSink(opts *config.ArchiveSinkOptions, logger *log.Logger) (*ArchiveSink, error) {
	if opts == nil {
		return nil, fmt.Errorf("archive sink options cannot be nil")
	}

	// Create configuration for the internal log writer
	writerConfig := log.DefaultConfig()
	writerConfig.Directory = opts.Directory
	writerConfig.Name = opts.Name
	writerConfig.EnableConsole = false // File only
	writerConfig.ShowTimestamp = false // Entries carry their own timestamps
	writerConfig.ShowLevel = false

	if opts.MaxSizeMB > 0 {
		writerConfig.MaxSizeKB = opts.MaxSizeMB * 1000
	}
	if opts.MaxTotalSizeMB >= 0 {
		writerConfig.MaxTotalSizeKB = opts.MaxTotalSizeMB * 1000
	}
	if opts.RetentionHours > 0 {
		writerConfig.RetentionPeriodHrs = opts.RetentionHours
	}
	if opts.MinDiskFreeMB > 0 {
		writerConfig.MinDiskFreeKB = opts.MinDiskFreeMB * 1000
	}

	writer := log.NewLogger()
	if err := writer.ApplyConfig(writerConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize archive writer: %w", err)
	}
	if err := writer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start archive writer: %w", err)
	}

	as := &ArchiveSink{
		config:    opts,
		writer:    writer,
		startTime: time.Now(),
		logger:    logger,
	}
	as.lastProcessed.Store(time.Time{})

	logger.Debug("msg", "Archive sink started",
		"component", "archive_sink",
		"directory", opts.Directory,
		"name", opts.Name)

	return as, nil
}

func (as *ArchiveSink) Write(ctx context.Context, entries []core.Entry) error {
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := entry.MarshalJSON()
		if err != nil {
			as.totalFailed.Add(1)
			as.logger.Error("msg", "Failed to encode entry for archive",
				"component", "archive_sink",
				"index", i,
				"error", err)
			continue
		}

		// Convert to string to prevent hex encoding of []byte by log package
		as.writer.Message(string(line))
		as.totalProcessed.Add(1)
	}
	as.lastProcessed.Store(time.Now())

	if failed := as.totalFailed.Load(); failed > 0 {
		return fmt.Errorf("archive sink: %d entries could not be encoded", failed)
	}
	return nil
}

func (as *ArchiveSink) Stop() {
	// Shutdown the writer with timeout
	if err := as.writer.Shutdown(2 * time.Second); err != nil {
		as.logger.Error("msg", "Error shutting down archive writer",
			"component", "archive_sink",
			"error", err)
	}

	as.logger.Debug("msg", "Archive sink stopped",
		"component", "archive_sink",
		"total_processed", as.totalProcessed.Load())
}

func (as *ArchiveSink) GetStats() SinkStats {
	lastProc, _ := as.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "archive",
		TotalProcessed: as.totalProcessed.Load(),
		TotalFailed:    as.totalFailed.Load(),
		StartTime:      as.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"directory":         as.config.Directory,
			"name":              as.config.Name,
			"max_size_mb":       as.config.MaxSizeMB,
			"max_total_size_mb": as.config.MaxTotalSizeMB,
			"retention_hours":   as.config.RetentionHours,
		},
	}
}
