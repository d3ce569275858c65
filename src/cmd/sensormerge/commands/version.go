// FILE: sensormerge/src/cmd/sensormerge/commands/version.go
package commands

import (
	"fmt"
	"io"

	"sensormerge/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct {
	out io.Writer
}

// NewVersionCommand creates a new version command
func NewVersionCommand(out io.Writer) *VersionCommand {
	return &VersionCommand{out: out}
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Fprintln(c.out, version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show SensorMerge version information

Usage:
  sensormerge version
  sensormerge -v
  sensormerge --version
`
}
