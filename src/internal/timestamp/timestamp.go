// FILE: sensormerge/src/internal/timestamp/timestamp.go
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/log"
)

var ErrInvalidTimestamp = errors.New("invalid ISO-8601 timestamp")

// Accepted layouts, most specific first. Fractional seconds are accepted after
// the seconds field by the time package even when the layout omits them.
var layouts = buildLayouts()

func buildLayouts() []string {
	dates := []struct {
		date  string
		times []string
	}{
		{date: "2006-01-02", times: []string{"15:04:05", "15:04", "15"}},
		{date: "20060102", times: []string{"150405", "1504", "15"}},
	}
	offsets := []string{"Z07:00", "Z0700", "Z07", ""}

	var out []string
	for _, d := range dates {
		for _, sep := range []string{"T", " "} {
			for _, clock := range d.times {
				for _, offset := range offsets {
					out = append(out, d.date+sep+clock+offset)
				}
			}
		}
	}
	for _, d := range dates {
		out = append(out, d.date)
	}
	return out
}

// Parse reads an ISO-8601 date-time. A trailing "Z" is rewritten to "+00:00";
// values without an offset are taken as UTC. Surrounding whitespace is rejected.
func Parse(s string) (time.Time, error) {
	value := s
	if strings.HasSuffix(value, "Z") || strings.HasSuffix(value, "z") {
		value = value[:len(value)-1] + "+00:00"
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// ToMillis returns milliseconds since the Unix epoch, truncated toward zero
func ToMillis(t time.Time) int64 {
	sec := t.Unix()
	nsec := int64(t.Nanosecond())
	ms := sec*1000 + nsec/int64(time.Millisecond)
	// Unix() floors, so a negative instant with a sub-millisecond remainder is one too low
	if ms < 0 && nsec%int64(time.Millisecond) != 0 {
		ms++
	}
	return ms
}

// Normalizer converts ISO-8601 strings to epoch milliseconds and reports failures
type Normalizer struct {
	logger *log.Logger

	// Statistics
	totalConverted atomic.Uint64
	totalFailed    atomic.Uint64
}

// NewNormalizer creates a normalizer that logs conversion failures to logger
func NewNormalizer(logger *log.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Millis converts s; ok is false when s is not a valid timestamp
func (n *Normalizer) Millis(s string) (int64, bool) {
	t, err := Parse(s)
	if err != nil {
		n.totalFailed.Add(1)
		n.logger.Warn("msg", "Error converting timestamp",
			"component", "normalizer",
			"timestamp", s,
			"error", err)
		return 0, false
	}

	n.totalConverted.Add(1)
	return ToMillis(t), true
}

// GetStats returns normalizer statistics
func (n *Normalizer) GetStats() map[string]any {
	return map[string]any{
		"total_converted": n.totalConverted.Load(),
		"total_failed":    n.totalFailed.Load(),
	}
}

// Converted returns the number of successful conversions
func (n *Normalizer) Converted() uint64 {
	return n.totalConverted.Load()
}

// Failed returns the number of rejected timestamps
func (n *Normalizer) Failed() uint64 {
	return n.totalFailed.Load()
}
