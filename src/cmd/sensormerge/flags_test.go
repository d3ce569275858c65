package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected flagConfig
		rest     []string
		wantErr  string
	}{
		{
			name: "NoArgs",
			args: nil,
			rest: []string{},
		},
		{
			name:     "ConfigWithValue",
			args:     []string{"-c", "/etc/sm.toml", "--inputs.primary=a.json"},
			expected: flagConfig{ConfigFile: "/etc/sm.toml"},
			rest:     []string{"--inputs.primary=a.json"},
		},
		{
			name:     "ConfigEquals",
			args:     []string{"--config=sm.toml", "-q"},
			expected: flagConfig{ConfigFile: "sm.toml", Quiet: true},
			rest:     []string{},
		},
		{
			name:     "VersionAndHelp",
			args:     []string{"--version", "-h"},
			expected: flagConfig{ShowVersion: true, ShowHelp: true},
			rest:     []string{},
		},
		{
			name:    "ConfigMissingValue",
			args:    []string{"--config"},
			wantErr: "requires a path",
		},
		{
			name:    "Positional",
			args:    []string{"data-1.json"},
			wantErr: "unexpected argument: data-1.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, rest, err := parseFlags(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *fc)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
