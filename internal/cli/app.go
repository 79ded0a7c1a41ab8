// pattern: Functional Core
package cli

import (
	"fmt"
	"io"
	"os"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// App represents the top-level CLI application.
type App struct {
	commands map[string]*Command
	order    []string
	version  string
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string) *App {
	return &App{
		commands: make(map[string]*Command),
		version:  version,
	}
}

// AddCommand registers a top-level command.
func (a *App) AddCommand(cmd *Command) {
	a.commands[cmd.Name] = cmd
	a.order = append(a.order, cmd.Name)
}

// Execute dispatches the CLI arguments to the appropriate command.
// Returns true if the console run loop should be launched, false otherwise.
func (a *App) Execute(args []string) bool {
	// No args: run the console
	if len(args) == 0 {
		return true
	}

	cmdName := args[0]
	if cmd, ok := a.commands[cmdName]; ok {
		for _, arg := range args[1:] {
			if arg == "--help" || arg == "-h" {
				fmt.Fprintf(os.Stderr, "%s\n", cmd.Usage)
				return false
			}
		}
		// Commands handle their own error reporting and exit codes.
		// Any errors are printed to stderr and os.Exit is called as needed.
		_ = cmd.Run(args[1:])
		return false
	}

	// Unknown command
	a.PrintHelp(os.Stderr)
	os.Exit(1)
	return false
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: swift-console [options] [command]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, name := range a.order {
		cmd := a.commands[name]
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "(none)", "Run the console log loop")
	fmt.Fprintf(w, "\nOptions:\n")
}
