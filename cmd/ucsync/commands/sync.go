package commands

import (
	"github.com/spf13/cobra"

	"github.com/ucspec/ucsync/engine"
	"github.com/ucspec/ucsync/errors"
)

// SyncCmd regenerates generated files across the version chain.
var SyncCmd = &cobra.Command{
	Use:   "sync [version...]",
	Short: "Regenerate inherited fixture files",
	Long: `Resolve each target version's tree (all declared versions when none are
named), materialize inherited files as ~-prefixed copies with computed
@tag lines and rewritten imports, and garbage-collect generated files
whose source is gone.

Unchanged files are skipped, so a second run with no edits writes
nothing. Recoverable problems (malformed directives, dangling imports)
are reported and make the command exit nonzero, but never stop the run.

Examples:
  ucsync sync                  # Sync every version
  ucsync sync r02 r03          # Sync two versions
  ucsync sync --dry-run        # Show what would change, touch nothing
  ucsync sync --json           # Emit machine-readable events`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return runSync(cmd, args, dryRun)
	},
}

func init() {
	SyncCmd.Flags().Bool("dry-run", false, "Resolve and diff without writing anything")
	SyncCmd.Flags().BoolP("json", "j", false, "Emit JSON events instead of terminal output")
}

func runSync(cmd *cobra.Command, versions []string, dryRun bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	summary, err := engine.New(cfg, newEmitter(cmd)).Sync(versions, dryRun)
	if err != nil {
		return err
	}

	// A dry run is informational and always exits clean; a real run with
	// unresolved issues fails the invocation.
	if !dryRun && summary.HasIssues() {
		return errors.Wrapf(errors.ErrIssuesReported, "%d issue(s)", len(summary.Issues))
	}
	return nil
}
