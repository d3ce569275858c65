// FILE: sensormerge/src/internal/source/file.go
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
)

// FileLoader reads JSON arrays of entries from the filesystem
type FileLoader struct {
	logger *log.Logger

	// Statistics
	totalFiles   atomic.Uint64
	failedFiles  atomic.Uint64
	totalEntries atomic.Uint64
	startTime    time.Time
	lastLoadTime atomic.Value // time.Time
}

// NewFileLoader creates a loader bound to the application logger
func NewFileLoader(logger *log.Logger) *FileLoader {
	fl := &FileLoader{
		logger:    logger,
		startTime: time.Now(),
	}
	fl.lastLoadTime.Store(time.Time{})
	return fl
}

// Load reads and decodes a JSON array of entry objects
func (fl *FileLoader) Load(path string) ([]core.Entry, error) {
	fl.totalFiles.Add(1)

	entries, err := fl.load(path)
	if err != nil {
		fl.failedFiles.Add(1)
		fl.logger.Error("msg", "Failed to load input",
			"component", "file_loader",
			"path", path,
			"error", err)
		return nil, err
	}

	fl.totalEntries.Add(uint64(len(entries)))
	fl.lastLoadTime.Store(time.Now())

	fl.logger.Debug("msg", "Input loaded",
		"component", "file_loader",
		"path", path,
		"entries", len(entries),
		"null", entries == nil)

	return entries, nil
}

// LoadExpected reads the optional verification fixture. Absence is reported
// as ErrNotFound without being logged as a failure.
func (fl *FileLoader) LoadExpected(path string) ([]core.Entry, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fl.logger.Debug("msg", "No expected result fixture",
			"component", "file_loader",
			"path", path)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return fl.Load(path)
}

func (fl *FileLoader) load(path string) ([]core.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: %s: empty document", ErrMalformed, path)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s: top-level value is not an array", ErrMalformed, path)
	}

	entries := make([]core.Entry, 0)
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return entries, nil
}

// GetStats returns the loader's statistics
func (fl *FileLoader) GetStats() SourceStats {
	lastLoad, _ := fl.lastLoadTime.Load().(time.Time)
	return SourceStats{
		Type:         "file",
		TotalFiles:   fl.totalFiles.Load(),
		FailedFiles:  fl.failedFiles.Load(),
		TotalEntries: fl.totalEntries.Load(),
		StartTime:    fl.startTime,
		LastLoadTime: lastLoad,
		Details:      map[string]any{},
	}
}

// Missing returns the paths that do not exist, in argument order
func Missing(paths ...string) []string {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, p)
		}
	}
	return missing
}
