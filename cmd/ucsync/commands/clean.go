package commands

import (
	"github.com/spf13/cobra"

	"github.com/ucspec/ucsync/engine"
)

// CleanCmd removes generated files.
var CleanCmd = &cobra.Command{
	Use:   "clean [version...]",
	Short: "Remove generated files",
	Long: `Delete every ~-prefixed generated file under the target versions (all
declared versions when none are named) and prune the directories that
emptied. Authored files are never touched.

The next sync regenerates everything from scratch, so clean is the
blunt instrument for a tree that got into a confusing state.

Examples:
  ucsync clean            # Remove all generated files
  ucsync clean r03        # Remove r03's generated files only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd, args)
	},
}

func init() {
	CleanCmd.Flags().BoolP("json", "j", false, "Emit JSON events instead of terminal output")
}

func runClean(cmd *cobra.Command, versions []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, err = engine.New(cfg, newEmitter(cmd)).Clean(versions)
	return err
}
