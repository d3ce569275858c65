// FILE: sensormerge/src/internal/format/format_test.go
package format

import (
	"encoding/json"
	"testing"

	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func testEntries(t *testing.T) []core.Entry {
	t.Helper()
	var entries []core.Entry
	require.NoError(t, json.Unmarshal([]byte(
		`[{"sensor":"B2","timestamp":1704067201000},{"sensor":"A1","timestamp":1704067201000}]`),
		&entries))
	return entries
}

func TestNewFormatter(t *testing.T) {
	logger := newTestLogger()

	testCases := []struct {
		name        string
		formatName  string
		expected    string
		expectError bool
	}{
		{
			name:       "JSONFormatter",
			formatName: "json",
			expected:   "json",
		},
		{
			name:       "NDJSONFormatter",
			formatName: "ndjson",
			expected:   "ndjson",
		},
		{
			name:       "YAMLFormatter",
			formatName: "yaml",
			expected:   "yaml",
		},
		{
			name:       "DefaultToJSON",
			formatName: "",
			expected:   "json",
		},
		{
			name:        "UnknownFormatter",
			formatName:  "xml",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			formatter, err := New(tc.formatName, false, logger)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, formatter)
			} else {
				require.NoError(t, err)
				require.NotNil(t, formatter)
				assert.Equal(t, tc.expected, formatter.Name())
				assert.NotEmpty(t, formatter.ContentType())
			}
		})
	}
}

func TestFormatEntry_Compact(t *testing.T) {
	entry := testEntries(t)[0]

	for _, name := range []string{"json", "ndjson"} {
		t.Run(name, func(t *testing.T) {
			formatter, err := New(name, true, newTestLogger())
			require.NoError(t, err)

			out, err := formatter.FormatEntry(entry)
			require.NoError(t, err)
			assert.Equal(t, `{"sensor":"B2","timestamp":1704067201000}`, string(out))
		})
	}
}
