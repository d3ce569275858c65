// FILE: sensormerge/src/internal/merge/merger.go
package merge

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"
	"sensormerge/src/internal/timestamp"

	"github.com/lixenwraith/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoInput signals that an input sequence is absent, which is distinct
// from an input that is present but empty
var ErrNoInput = errors.New("merge input is missing")

// Merger normalizes timestamps of two entry sequences and merges them into
// one sequence ordered by timestamp, then by sensor initial descending
type Merger struct {
	config     config.MergeConfig
	normalizer *timestamp.Normalizer
	logger     *log.Logger

	// Statistics
	totalMerges  atomic.Uint64
	totalIn      atomic.Uint64
	totalOut     atomic.Uint64
	totalDropped atomic.Uint64
}

type sortItem struct {
	entry  core.Entry
	ts     core.Timestamp
	sensor rune
}

// New creates a merger from configuration
func New(cfg config.MergeConfig, logger *log.Logger) *Merger {
	if cfg.MissingTimestamp == "" {
		cfg.MissingTimestamp = config.MissingTimestampKeep
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	logger.Debug("msg", "Merger created",
		"component", "merger",
		"missing_timestamp", cfg.MissingTimestamp,
		"workers", cfg.Workers)

	return &Merger{
		config:     cfg,
		normalizer: timestamp.NewNormalizer(logger),
		logger:     logger,
	}
}

// Merge normalizes string timestamps of both inputs in place, concatenates
// primary then secondary and stable-sorts the result. A nil input yields
// ErrNoInput. A missing or invalid sensor, or a timestamp that cannot be
// ordered, fails the whole merge.
func (m *Merger) Merge(primary, secondary []core.Entry) ([]core.Entry, error) {
	m.totalMerges.Add(1)

	if primary == nil || secondary == nil {
		m.logger.Warn("msg", "Merge skipped, input missing",
			"component", "merger",
			"primary_present", primary != nil,
			"secondary_present", secondary != nil)
		return nil, ErrNoInput
	}

	if err := m.normalize(primary); err != nil {
		return nil, err
	}
	if err := m.normalize(secondary); err != nil {
		return nil, err
	}

	items := make([]sortItem, 0, len(primary)+len(secondary))
	var err error
	if items, err = m.collect(items, core.InputPrimary, primary); err != nil {
		return nil, err
	}
	if items, err = m.collect(items, core.InputSecondary, secondary); err != nil {
		return nil, err
	}

	slices.SortStableFunc(items, func(a, b sortItem) int {
		if c := core.CompareTimestamps(a.ts, b.ts); c != 0 {
			return c
		}
		return cmp.Compare(b.sensor, a.sensor)
	})

	result := make([]core.Entry, len(items))
	for i, item := range items {
		result[i] = item.entry
	}

	m.totalIn.Add(uint64(len(primary) + len(secondary)))
	m.totalOut.Add(uint64(len(result)))

	m.logger.Debug("msg", "Merge complete",
		"component", "merger",
		"primary", len(primary),
		"secondary", len(secondary),
		"merged", len(result))

	return result, nil
}

// collect extracts sort keys from one input, applying the missing timestamp policy
func (m *Merger) collect(items []sortItem, name string, entries []core.Entry) ([]sortItem, error) {
	for i, entry := range entries {
		ts := entry.Timestamp()

		if ts.Kind == core.TimestampAbsent && m.config.MissingTimestamp == config.MissingTimestampDrop {
			m.totalDropped.Add(1)
			m.logger.Debug("msg", "Entry without timestamp dropped",
				"component", "merger",
				"input", name,
				"index", i)
			continue
		}

		if !ts.Comparable() {
			return nil, fmt.Errorf("%s entry %d: %w: %s", name, i, core.ErrInvalidTimestamp, ts.Raw)
		}

		sensor, err := entry.SensorKey()
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", name, i, err)
		}

		items = append(items, sortItem{entry: entry, ts: ts, sensor: sensor})
	}
	return items, nil
}

// normalize replaces string timestamps with epoch milliseconds. Entries are
// independent, so chunks run in parallel when more than one worker is configured.
func (m *Merger) normalize(entries []core.Entry) error {
	workers := int(m.config.Workers)
	if workers <= 1 || len(entries) < 2 {
		m.normalizeRange(entries)
		return nil
	}

	chunk := (len(entries) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(entries); start += chunk {
		part := entries[start:min(start+chunk, len(entries))]
		g.Go(func() error {
			m.normalizeRange(part)
			return nil
		})
	}
	return g.Wait()
}

func (m *Merger) normalizeRange(entries []core.Entry) {
	for i := range entries {
		ts := entries[i].Timestamp()
		if ts.Kind != core.TimestampText {
			continue
		}
		if ms, ok := m.normalizer.Millis(ts.Text); ok {
			entries[i].Set(core.FieldTimestamp, strconv.AppendInt(nil, ms, 10))
		}
	}
}

// GetStats returns merger statistics
func (m *Merger) GetStats() map[string]any {
	return map[string]any{
		"missing_timestamp":     m.config.MissingTimestamp,
		"workers":               m.config.Workers,
		"total_merges":          m.totalMerges.Load(),
		"total_entries_in":      m.totalIn.Load(),
		"total_entries_out":     m.totalOut.Load(),
		"total_dropped":         m.totalDropped.Load(),
		"timestamps_normalized": m.normalizer.Converted(),
		"timestamps_failed":     m.normalizer.Failed(),
	}
}

// Dropped returns how many entries were removed for lacking a timestamp
func (m *Merger) Dropped() uint64 {
	return m.totalDropped.Load()
}

// Normalizer exposes the timestamp normalizer for statistics
func (m *Merger) Normalizer() *timestamp.Normalizer {
	return m.normalizer
}
