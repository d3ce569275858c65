// FILE: sensormerge/src/internal/verify/verify_test.go
package verify

import (
	"encoding/json"
	"testing"

	"sensormerge/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEntries(t *testing.T, doc string) []core.Entry {
	t.Helper()
	var entries []core.Entry
	require.NoError(t, json.Unmarshal([]byte(doc), &entries))
	return entries
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		name     string
		result   string
		expected string
		match    bool
	}{
		{
			name:     "Identical",
			result:   `[{"sensor":"B2","timestamp":1704067201000}]`,
			expected: `[{"sensor":"B2","timestamp":1704067201000}]`,
			match:    true,
		},
		{
			name:     "KeyOrderIgnored",
			result:   `[{"sensor":"B2","timestamp":1704067201000}]`,
			expected: `[{"timestamp":1704067201000,"sensor":"B2"}]`,
			match:    true,
		},
		{
			name:     "NumericEquivalence",
			result:   `[{"sensor":"B2","timestamp":1000,"v":[0.5]}]`,
			expected: `[{"sensor":"B2","timestamp":1000.0,"v":[5e-1]}]`,
			match:    true,
		},
		{
			name:     "BothEmpty",
			result:   `[]`,
			expected: `[]`,
			match:    true,
		},
		{
			name:     "EntryOrderMatters",
			result:   `[{"sensor":"A1"},{"sensor":"B2"}]`,
			expected: `[{"sensor":"B2"},{"sensor":"A1"}]`,
		},
		{
			name:     "NumberVersusString",
			result:   `[{"sensor":"A1","timestamp":1}]`,
			expected: `[{"sensor":"A1","timestamp":"1"}]`,
		},
		{
			name:     "ExtraField",
			result:   `[{"sensor":"A1","x":null}]`,
			expected: `[{"sensor":"A1"}]`,
		},
		{
			name:     "LengthDiffers",
			result:   `[{"sensor":"A1"}]`,
			expected: `[]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Compare(parseEntries(t, tc.result), parseEntries(t, tc.expected))
			require.NoError(t, err)
			assert.Equal(t, tc.match, report.Match)
			if tc.match {
				assert.Empty(t, report.Diff)
				assert.Nil(t, report.Result)
			} else {
				assert.NotEmpty(t, report.Diff)
				assert.NotEmpty(t, report.Result)
				assert.NotEmpty(t, report.Expected)
			}
		})
	}
}

func TestCompare_Diff(t *testing.T) {
	result := parseEntries(t, `[{"sensor":"A1","timestamp":2}]`)
	expected := parseEntries(t, `[{"sensor":"A1","timestamp":1}]`)

	report, err := Compare(result, expected)
	require.NoError(t, err)
	require.False(t, report.Match)

	assert.Contains(t, report.Diff, "--- expected")
	assert.Contains(t, report.Diff, "+++ result")
	assert.Contains(t, report.Diff, `-    "timestamp": 1`)
	assert.Contains(t, report.Diff, `+    "timestamp": 2`)
	assert.Contains(t, string(report.Result), "  {\n    \"sensor\": \"A1\",")
}

func TestDigest(t *testing.T) {
	d1 := Digest([]byte(`[]`))
	d2 := Digest([]byte(`[]`))
	d3 := Digest([]byte(`[{}]`))

	assert.Len(t, d1, 64)
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
	// BLAKE2b-256 of the empty input
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", Digest(nil))
}
