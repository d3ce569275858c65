package timestamp

import (
	"testing"
	"time"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "ZuluSuffix", input: "2024-01-01T00:00:00Z", want: 1704067200000},
		{name: "ZuluOneSecond", input: "2024-01-01T00:00:01Z", want: 1704067201000},
		{name: "ExplicitUTCOffset", input: "2024-01-01T00:00:00+00:00", want: 1704067200000},
		{name: "PositiveOffset", input: "2024-01-01T02:00:00+02:00", want: 1704067200000},
		{name: "NegativeOffset", input: "2023-12-31T19:00:00-05:00", want: 1704067200000},
		{name: "BasicOffset", input: "2024-01-01T01:00:00+0100", want: 1704067200000},
		{name: "Milliseconds", input: "2024-01-01T00:00:00.123Z", want: 1704067200123},
		{name: "MicrosecondsTruncated", input: "2024-01-01T00:00:00.123999+00:00", want: 1704067200123},
		{name: "NanosecondsTruncated", input: "2024-01-01T00:00:00.999999999Z", want: 1704067200999},
		{name: "SpaceSeparator", input: "2024-01-01 00:00:00Z", want: 1704067200000},
		{name: "NaiveIsUTC", input: "2024-01-01T00:00:00", want: 1704067200000},
		{name: "MinutesOnly", input: "2024-01-01T00:01", want: 1704067260000},
		{name: "DateOnly", input: "2024-01-01", want: 1704067200000},
		{name: "HourOffset", input: "2024-01-01T05:00:00+05", want: 1704067200000},
		{name: "HourOffsetNegative", input: "2023-12-31T19:00:00-05", want: 1704067200000},
		{name: "LowercaseZulu", input: "2024-01-01T00:00:00z", want: 1704067200000},
		{name: "MinutesSpaceOffset", input: "2024-01-01 01:00+01:00", want: 1704067200000},
		{name: "MinutesBasicOffset", input: "2024-01-01T01:00+0100", want: 1704067200000},
		{name: "HourWithOffset", input: "2024-01-01T01+01:00", want: 1704067200000},
		{name: "HourZulu", input: "2024-01-01T00Z", want: 1704067200000},
		{name: "BasicFormatZulu", input: "20240101T000000Z", want: 1704067200000},
		{name: "BasicFormatOffset", input: "20240101T010000+0100", want: 1704067200000},
		{name: "BasicFormatFraction", input: "20240101T000000.250Z", want: 1704067200250},
		{name: "BasicMinutes", input: "20240101T0001", want: 1704067260000},
		{name: "BasicDateOnly", input: "20240101", want: 1704067200000},
		{name: "Epoch", input: "1970-01-01T00:00:00Z", want: 0},
		{name: "PreEpoch", input: "1969-12-31T23:59:59Z", want: -1000},
		{name: "PreEpochFractionTowardZero", input: "1969-12-31T23:59:59.9995Z", want: 0},
		{name: "PreEpochFraction", input: "1969-12-31T23:59:58.0005Z", want: -1999},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ToMillis(parsed))
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"not-a-date", "", "2024-13-01T00:00:00Z", "2024-01-01T25:00:00Z", "01/02/2024", "Z",
		" 2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z ", "2024-01-01T00:00:00+5"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrInvalidTimestamp)
		})
	}
}

func TestToMillis_MatchesUnixMilliAfterEpoch(t *testing.T) {
	instant := time.Date(2031, 7, 9, 12, 30, 45, 678_900_000, time.UTC)
	assert.Equal(t, instant.UnixMilli(), ToMillis(instant))
}

func TestNormalizer_Millis(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	ms, ok := n.Millis("2024-01-01T00:00:00Z")
	assert.True(t, ok)
	assert.Equal(t, int64(1704067200000), ms)

	ms, ok = n.Millis("not-a-date")
	assert.False(t, ok)
	assert.Zero(t, ms)

	assert.Equal(t, uint64(1), n.Converted())
	assert.Equal(t, uint64(1), n.Failed())

	stats := n.GetStats()
	assert.Equal(t, uint64(1), stats["total_converted"])
	assert.Equal(t, uint64(1), stats["total_failed"])
}
