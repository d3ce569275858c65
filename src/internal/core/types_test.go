package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestampValue(t *testing.T) {
	testCases := []struct {
		raw  string
		kind TimestampKind
	}{
		{raw: `1704067200000`, kind: TimestampMillis},
		{raw: `-5`, kind: TimestampMillis},
		{raw: `1.5e12`, kind: TimestampNumber},
		{raw: `1e400`, kind: TimestampNumber},
		{raw: `123456789012345678901234567890`, kind: TimestampNumber},
		{raw: `"2024-01-01"`, kind: TimestampText},
		{raw: `null`, kind: TimestampInvalid},
		{raw: `true`, kind: TimestampInvalid},
		{raw: `{"a":1}`, kind: TimestampInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			ts := ParseTimestampValue(json.RawMessage(tc.raw))
			assert.Equal(t, tc.kind, ts.Kind)
		})
	}
}

func TestCompareTimestamps(t *testing.T) {
	millis := func(v int64) Timestamp { return Timestamp{Kind: TimestampMillis, Millis: v} }
	number := func(v float64) Timestamp { return Timestamp{Kind: TimestampNumber, Number: v} }
	text := func(v string) Timestamp { return Timestamp{Kind: TimestampText, Text: v} }
	absent := Timestamp{Kind: TimestampAbsent}

	assert.Equal(t, -1, CompareTimestamps(millis(1), millis(2)))
	assert.Equal(t, 0, CompareTimestamps(millis(5), number(5)))
	assert.Equal(t, 1, CompareTimestamps(number(5.5), millis(5)))
	assert.Equal(t, -1, CompareTimestamps(millis(1<<50), text("0")))
	assert.Equal(t, -1, CompareTimestamps(text("a"), text("b")))
	assert.Equal(t, -1, CompareTimestamps(text("zzz"), absent))
	assert.Equal(t, 0, CompareTimestamps(absent, absent))
}

func TestCompareTimestamps_ExactNumbers(t *testing.T) {
	parse := func(raw string) Timestamp { return ParseTimestampValue(json.RawMessage(raw)) }

	// 2^53+1 is not representable as float64
	assert.Equal(t, -1, CompareTimestamps(parse(`9007199254740992.0`), parse(`9007199254740993`)))
	assert.Equal(t, 1, CompareTimestamps(parse(`9007199254740993`), parse(`9007199254740992.0`)))
	assert.Equal(t, 0, CompareTimestamps(parse(`9007199254740993`), parse(`9007199254740993.0`)))

	assert.Equal(t, -1, CompareTimestamps(parse(`9223372036854775807`), parse(`9223372036854775808`)))

	inf := parse(`1e400`)
	negInf := parse(`-1e400`)
	assert.Equal(t, 1, CompareTimestamps(inf, parse(`9223372036854775807`)))
	assert.Equal(t, -1, CompareTimestamps(negInf, parse(`-9223372036854775808`)))
	assert.Equal(t, -1, CompareTimestamps(inf, parse(`"2024-01-01"`)))
}
