package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ucspec/ucsync/engine"
	"github.com/ucspec/ucsync/report"
)

// StatusCmd shows what a sync would change, touching nothing.
var StatusCmd = &cobra.Command{
	Use:   "status [version...]",
	Short: "Show pending changes without writing",
	Long: `Run the full resolution pipeline read-only and list every file a sync
would create, update, or delete. Up-to-date files are listed at -v.

Examples:
  ucsync status           # Pending changes across all versions
  ucsync status r03       # Pending changes for one version
  ucsync status --json    # Machine-readable event stream`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, args)
	},
}

func init() {
	StatusCmd.Flags().BoolP("json", "j", false, "Emit JSON events instead of a table")
}

func runStatus(cmd *cobra.Command, versions []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		_, err := engine.New(cfg, report.NewJSONEmitter()).Sync(versions, true)
		return err
	}

	// Quiet engine; the table below is the output.
	summary, err := engine.New(cfg, report.NopEmitter{}).Sync(versions, true)
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")

	pending := 0
	for _, c := range summary.Changes {
		if c.Action != report.ActionSkip {
			pending++
		}
	}

	if pending == 0 && !summary.HasIssues() {
		pterm.Success.Printf("Everything up to date (%d files checked across %d versions)\n",
			summary.Skipped(), len(summary.Versions))
		return nil
	}

	fmt.Printf("%-10s %-14s %s\n", "VERSION", "ACTION", "FILE")
	fmt.Printf("%-10s %-14s %s\n", "-------", "------", "----")
	for _, c := range summary.Changes {
		if c.Action == report.ActionSkip && verbosity < 1 {
			continue
		}
		fmt.Printf("%-10s %-14s %s\n", c.Version, "would-"+string(c.Action), c.File)
	}
	fmt.Printf("\n%d to create, %d to update, %d to delete, %d current\n",
		summary.Created(), summary.Updated(), summary.Deleted(), summary.Skipped())

	if summary.HasIssues() {
		pterm.Println()
		issueEmitter := report.NewCLIEmitter(verbosity)
		for _, issue := range summary.Issues {
			issueEmitter.EmitIssue(issue)
		}
	}
	return nil
}
