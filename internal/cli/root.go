// Package cli implements the brat command-line interface: the build step
// that creates a project database from input artifacts, the run step that
// re-executes the capacity model against current parameter tables, and
// JSONL export of the reach views.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	project   string
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "brat" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brat",
		Short: "Beaver dam-capacity modeling for riverscape projects",
		Long: "brat builds riverscape project databases from reach and vegetation\n" +
			"inputs, and runs the dam-capacity model against their parameter tables.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .brat)")
	root.PersistentFlags().StringVar(&flags.project, "project", "", "project database path (default: project.gpkg)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newExportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// exitError prints the error to stderr and exits with the given code.
func exitError(code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}
