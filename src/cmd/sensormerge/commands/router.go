// FILE: sensormerge/src/cmd/sensormerge/commands/router.go
package commands

import (
	"fmt"
	"io"
	"os"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter routes CLI arguments to the matching subcommand handler.
type CommandRouter struct {
	commands map[string]Handler
	out      io.Writer
}

// NewCommandRouter creates the router with all available commands.
func NewCommandRouter() *CommandRouter {
	return newCommandRouter(os.Stdout)
}

func newCommandRouter(out io.Writer) *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
		out:      out,
	}

	router.commands["version"] = NewVersionCommand(out)
	router.commands["help"] = NewHelpCommand(router)
	router.commands["check"] = NewCheckCommand(out)

	return router
}

// Route executes a subcommand if args name one. It reports false when the
// default merge run should proceed.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]

	handler, exists := r.commands[cmdName]
	if !exists {
		if cmdName != "" && cmdName[0] != '-' {
			return false, fmt.Errorf("unknown command: %s\n\nRun 'sensormerge help' for usage", cmdName)
		}
		// Flags belong to the merge run
		return false, nil
	}

	// Command-specific help
	for _, arg := range args[2:] {
		if (arg == "-h" || arg == "--help") && cmdName != "help" {
			fmt.Fprint(r.out, handler.Help())
			return true, nil
		}
	}

	return true, handler.Execute(args[2:])
}

// Help prints the general help message.
func (r *CommandRouter) Help() error {
	return r.commands["help"].Execute(nil)
}

// GetCommand returns a command handler by name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}
