// The run command: re-execute the capacity model against an existing
// project's current parameter tables. Fast by design so users can tweak
// parameters and rerun; output columns are overwritten in place.
package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riverscapes/brat/internal/capacity"
	"github.com/riverscapes/brat/internal/project"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the capacity model against the current parameter tables",
		Long: "Open an existing project database and recompute every reach's\n" +
			"capacity, risk, limitation, and opportunity outputs. Previous results\n" +
			"are fully overwritten; no build geoprocessing is repeated.",
		RunE: runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return exitError(exitUserError, err.Error())
	}
	log := newLogger(flags.verbose)

	p, err := project.Open(cfg.ProjectPath)
	if err != nil {
		return exitError(exitUserError, fmt.Sprintf("open project: %s", err))
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := capacity.Runner{Log: log, Workers: cfg.Workers}
	summary, err := runner.Run(ctx, p, cfg)
	if err != nil {
		if len(summary.FailedWatersheds) > 0 {
			// Configuration errors abort only the affected watersheds; the
			// rest of the run completed and was written.
			return exitError(exitUserError, fmt.Sprintf(
				"run completed with configuration errors (%d watershed(s) aborted): %s",
				len(summary.FailedWatersheds), err))
		}
		return exitError(exitSysError, fmt.Sprintf("run failed: %s", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run %s complete: %d reaches processed, %d skipped\n",
		summary.RunID, summary.Processed, summary.Skipped)
	if summary.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped reaches are missing required attributes; see the log for IDs\n")
	}
	return nil
}
