// The version command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riverscapes/brat/pkg/brat"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the brat version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "brat", brat.Version)
		},
	}
}
