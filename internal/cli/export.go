// The export command: write the reach views out as JSONL.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/riverscapes/brat/pkg/project"
)

// exportFlags holds the export command's flag values.
type exportFlags struct {
	outDir string
}

func newExportCmd() *cobra.Command {
	var ef exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reach summaries and attributes as JSONL",
		Long: "Write the reach summary and reach attribute views to JSONL files\n" +
			"in the output directory. Files are replaced atomically, so a partial\n" +
			"export never clobbers a previous one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, ef)
		},
	}

	cmd.Flags().StringVar(&ef.outDir, "out", ".", "output directory for exported files")

	return cmd
}

func runExport(cmd *cobra.Command, ef exportFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return exitError(exitUserError, err.Error())
	}

	p, err := project.Open(cfg.ProjectPath)
	if err != nil {
		return exitError(exitUserError, fmt.Sprintf("open project: %s", err))
	}
	defer p.Close()

	reachesPath := filepath.Join(ef.outDir, "reaches.jsonl")
	n, err := p.ExportReaches(reachesPath)
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("export reaches: %s", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reaches to %s\n", n, reachesPath)

	attrsPath := filepath.Join(ef.outDir, "reach_attributes.jsonl")
	n, err = p.ExportReachAttributes(attrsPath)
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("export reach attributes: %s", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reach attribute rows to %s\n", n, attrsPath)

	return nil
}
