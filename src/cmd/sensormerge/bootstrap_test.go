package main

import (
	"bytes"
	"testing"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"debug", int(log.LevelDebug)},
		{"INFO", int(log.LevelInfo)},
		{"warn", int(log.LevelWarn)},
		{"warning", int(log.LevelWarn)},
		{"error", int(log.LevelError)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLogLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestOutputHandler_Quiet(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := NewOutputHandler(true, &stdout, &stderr)

	out.Print("hidden %d\n", 1)
	out.Error("hidden %d\n", 2)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	out.SetQuiet(false)
	out.Print("shown\n")
	out.Error("oops\n")
	assert.Equal(t, "shown\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
	assert.False(t, out.IsQuiet())
}
