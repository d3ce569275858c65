// FILE: sensormerge/src/cmd/sensormerge/flags.go
package main

import (
	"fmt"
	"strings"
)

// Flags handled by the binary itself; everything else is passed to the config loader
type flagConfig struct {
	ConfigFile  string
	Quiet       bool
	ShowVersion bool
	ShowHelp    bool
}

// parseFlags extracts application flags and returns the remaining arguments
func parseFlags(args []string) (*flagConfig, []string, error) {
	fc := &flagConfig{}
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("%s requires a path", arg)
			}
			i++
			fc.ConfigFile = args[i]
		case strings.HasPrefix(arg, "--config="):
			fc.ConfigFile = strings.TrimPrefix(arg, "--config=")
		case arg == "-q" || arg == "--quiet":
			fc.Quiet = true
		case arg == "-v" || arg == "--version":
			fc.ShowVersion = true
		case arg == "-h" || arg == "--help":
			fc.ShowHelp = true
		default:
			rest = append(rest, arg)
		}
	}

	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		return nil, nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	return fc, rest, nil
}
