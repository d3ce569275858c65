// FILE: sensormerge/src/cmd/sensormerge/commands/help.go
package commands

import (
	"fmt"
	"sort"
	"strings"
)

// generalHelpTemplate is shown when no specific command is requested.
const generalHelpTemplate = `SensorMerge: merge two sensor reading files into one time-ordered result.

Usage:
  sensormerge [command] [options]
  sensormerge [options]

Commands:
%s

Application Options:
  -c, --config <path>      Path to configuration file (default: ~/.config/sensormerge.toml)
  -h, --help               Display this help message and exit
  -v, --version            Display version information and exit
  -q, --quiet              Suppress all console output, including errors

Any other --section.key=value argument overrides the configuration, e.g.
  --inputs.primary=a.json --merge.missing_timestamp=drop

Environment:
  SENSORMERGE_CONFIG_FILE  Configuration file path
  SENSORMERGE_CONFIG_DIR   Directory searched for sensormerge.toml
  SENSORMERGE_<SECTION>_<KEY>  Override any setting, e.g. SENSORMERGE_INPUTS_EXPECTED

Configuration Sources (Precedence: CLI > Env > File > Defaults)

Exit Codes:
  0  merge succeeded and matched the expected result (or none was present)
  1  merge, verification or delivery failed
  2  required input files are missing

Examples:
  # Merge data-1.json and data-2.json in the current directory
  sensormerge

  # Validate a configuration without running a merge
  sensormerge check -c /etc/sensormerge/prod.toml
`

// HelpCommand displays general or command-specific help.
type HelpCommand struct {
	router *CommandRouter
}

// NewHelpCommand creates a new help command handler.
func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Fprint(c.router.out, handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Fprintf(c.router.out, generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  sensormerge help              Show general help
  sensormerge help <command>    Show help for a specific command
`
}

// formatCommandList creates an aligned list of all available commands.
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, commands[name].Description()))
	}

	return strings.Join(lines, "\n")
}
