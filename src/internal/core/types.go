// FILE: sensormerge/src/internal/core/types.go
package core

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"math/big"
	"strconv"
)

// TimestampKind tags the value found in an entry's timestamp field
type TimestampKind uint8

const (
	TimestampAbsent  TimestampKind = iota // no timestamp field
	TimestampMillis                       // integer milliseconds since epoch
	TimestampNumber                       // any other JSON number
	TimestampText                         // string that could not be normalized
	TimestampInvalid                      // null, bool, object or array
)

func (k TimestampKind) String() string {
	switch k {
	case TimestampAbsent:
		return "absent"
	case TimestampMillis:
		return "millis"
	case TimestampNumber:
		return "number"
	case TimestampText:
		return "text"
	default:
		return "invalid"
	}
}

// Timestamp is the post-normalization sort key of an entry
type Timestamp struct {
	Kind   TimestampKind
	Millis int64
	Number float64
	Text   string
	Raw    json.RawMessage
}

// ParseTimestampValue classifies a raw JSON value
func ParseTimestampValue(raw json.RawMessage) Timestamp {
	trimmed := bytes.TrimSpace(raw)
	ts := Timestamp{Kind: TimestampInvalid, Raw: raw}
	if len(trimmed) == 0 {
		return ts
	}

	switch c := trimmed[0]; {
	case c == '"':
		if err := json.Unmarshal(trimmed, &ts.Text); err == nil {
			ts.Kind = TimestampText
		}
	case c == '-' || (c >= '0' && c <= '9'):
		if v, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
			ts.Kind = TimestampMillis
			ts.Millis = v
		} else if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil || errors.Is(err, strconv.ErrRange) {
			// Out-of-range values hold ±Inf
			ts.Kind = TimestampNumber
			ts.Number = f
		}
	}
	return ts
}

// IsNumeric reports whether the timestamp compares as a number
func (t Timestamp) IsNumeric() bool {
	return t.Kind == TimestampMillis || t.Kind == TimestampNumber
}

// numericValue returns the exact value of a numeric timestamp. Numbers are
// re-read from their JSON text so integers beyond 2^53 keep every digit.
func (t Timestamp) numericValue() *big.Float {
	if t.Kind == TimestampMillis {
		return new(big.Float).SetInt64(t.Millis)
	}
	if raw := bytes.TrimSpace(t.Raw); len(raw) > 0 {
		if f, _, err := big.ParseFloat(string(raw), 10, 512, big.ToNearestEven); err == nil {
			return f
		}
	}
	return new(big.Float).SetFloat64(t.Number)
}

// Comparable reports whether the timestamp takes part in the total order
func (t Timestamp) Comparable() bool {
	return t.Kind != TimestampInvalid
}

// CompareTimestamps orders timestamps: numbers ascending, then unparsed text
// lexically, then entries without a timestamp.
func CompareTimestamps(a, b Timestamp) int {
	if ra, rb := a.rank(), b.rank(); ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch {
	case a.Kind == TimestampMillis && b.Kind == TimestampMillis:
		return cmp.Compare(a.Millis, b.Millis)
	case a.IsNumeric():
		return a.numericValue().Cmp(b.numericValue())
	case a.Kind == TimestampText:
		return cmp.Compare(a.Text, b.Text)
	default:
		return 0
	}
}

func (t Timestamp) rank() int {
	switch t.Kind {
	case TimestampMillis, TimestampNumber:
		return 0
	case TimestampText:
		return 1
	case TimestampAbsent:
		return 2
	default:
		return 3
	}
}
