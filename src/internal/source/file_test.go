package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		content string
		wantLen int
		wantNil bool
		wantErr error
	}{
		{name: "Array", content: `[{"sensor":"A1","timestamp":1},{"sensor":"B1"}]`, wantLen: 2},
		{name: "EmptyArray", content: ` [] `, wantLen: 0},
		{name: "Null", content: "null\n", wantNil: true},
		{name: "Object", content: `{"sensor":"A1"}`, wantErr: ErrMalformed},
		{name: "Truncated", content: `[{"sensor":`, wantErr: ErrMalformed},
		{name: "NonObjectElement", content: `[1,2]`, wantErr: ErrMalformed},
		{name: "Empty", content: ``, wantErr: ErrMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fl := NewFileLoader(newTestLogger())
			path := writeFile(t, dir, tc.name+".json", tc.content)

			entries, err := fl.Load(path)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				assert.Equal(t, uint64(1), fl.GetStats().FailedFiles)
				return
			}

			require.NoError(t, err)
			if tc.wantNil {
				assert.Nil(t, entries)
				return
			}
			assert.NotNil(t, entries)
			assert.Len(t, entries, tc.wantLen)
			assert.Equal(t, uint64(tc.wantLen), fl.GetStats().TotalEntries)
		})
	}
}

func TestFileLoader_LoadNotFound(t *testing.T) {
	fl := NewFileLoader(newTestLogger())

	_, err := fl.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileLoader_LoadUnreadable(t *testing.T) {
	fl := NewFileLoader(newTestLogger())

	// A directory cannot be read as a file
	_, err := fl.Load(t.TempDir())
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestFileLoader_LoadExpected(t *testing.T) {
	dir := t.TempDir()
	fl := NewFileLoader(newTestLogger())

	_, err := fl.LoadExpected(filepath.Join(dir, "data-result.json"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint64(0), fl.GetStats().TotalFiles)

	path := writeFile(t, dir, "data-result.json", `[{"sensor":"B2","timestamp":1704067201000}]`)
	expected, err := fl.LoadExpected(path)
	require.NoError(t, err)
	require.Len(t, expected, 1)
	assert.Equal(t, `{"sensor":"B2","timestamp":1704067201000}`, expected[0].String())
}

func TestMissing(t *testing.T) {
	dir := t.TempDir()
	present := writeFile(t, dir, "data-1.json", `[]`)
	absentA := filepath.Join(dir, "data-2.json")
	absentB := filepath.Join(dir, "data-3.json")

	assert.Equal(t, []string{absentA, absentB}, Missing(present, absentA, absentB))
	assert.Empty(t, Missing(present))
}
