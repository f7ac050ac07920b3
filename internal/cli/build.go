// The build command: create a project database from input artifacts.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riverscapes/brat/internal/builder"
)

// buildFlags holds the build command's flag values.
type buildFlags struct {
	inputDir       string
	gridDef        string
	existingRaster string
	historicRaster string
	noProgress     bool
}

func newBuildCmd() *cobra.Command {
	var bf buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a project database from reach and vegetation inputs",
		Long: "Create a fresh project database, import the JSONL inputs, overlay\n" +
			"reach buffers on the vegetation rasters, and persist the aggregates.\n" +
			"Build is the slow step; run re-executes only the capacity model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, bf)
		},
	}

	cmd.Flags().StringVar(&bf.inputDir, "inputs", "", "directory of JSONL input files (required)")
	cmd.Flags().StringVar(&bf.gridDef, "gdef", "", "grid definition file (required)")
	cmd.Flags().StringVar(&bf.existingRaster, "veg-existing", "", "existing-epoch vegetation raster (required)")
	cmd.Flags().StringVar(&bf.historicRaster, "veg-historic", "", "historic-epoch vegetation raster (required)")
	cmd.Flags().BoolVar(&bf.noProgress, "no-progress", false, "disable the progress bar")
	_ = cmd.MarkFlagRequired("inputs")
	_ = cmd.MarkFlagRequired("gdef")
	_ = cmd.MarkFlagRequired("veg-existing")
	_ = cmd.MarkFlagRequired("veg-historic")

	return cmd
}

func runBuild(cmd *cobra.Command, bf buildFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return exitError(exitUserError, err.Error())
	}
	log := newLogger(flags.verbose)

	p, stats, err := builder.Build(cmd.Context(), builder.Options{
		ProjectPath:        cfg.ProjectPath,
		InputDir:           bf.inputDir,
		GridDefPath:        bf.gridDef,
		ExistingRasterPath: bf.existingRaster,
		HistoricRasterPath: bf.historicRaster,
		Config:             cfg,
		Log:                log,
		Progress:           !bf.noProgress,
	})
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("build failed: %s", err))
	}
	defer p.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Project built: %s (%d watersheds, %d reaches, %d vegetation rows)\n",
		cfg.ProjectPath, stats.Watersheds, stats.Reaches, stats.VegetationRows)
	return nil
}
