// FILE: sensormerge/src/internal/source/source.go
package source

import (
	"errors"
	"time"

	"sensormerge/src/internal/core"
)

var (
	ErrNotFound   = errors.New("file not found")
	ErrUnreadable = errors.New("file unreadable")
	ErrMalformed  = errors.New("malformed JSON")
)

// Loader reads one input collection of entries
type Loader interface {
	// Load returns the decoded entries; a nil slice means the document was null
	Load(path string) ([]core.Entry, error)

	// Returns loader statistics
	GetStats() SourceStats
}

// Contains statistics about a loader
type SourceStats struct {
	Type         string
	TotalFiles   uint64
	FailedFiles  uint64
	TotalEntries uint64
	StartTime    time.Time
	LastLoadTime time.Time
	Details      map[string]any
}
