package commands

import (
	"github.com/spf13/cobra"

	"github.com/ucspec/ucsync/conf"
	"github.com/ucspec/ucsync/errors"
	"github.com/ucspec/ucsync/logger"
	"github.com/ucspec/ucsync/report"
)

// RootCmd is the ucsync entry point.
var RootCmd = &cobra.Command{
	Use:   "ucsync",
	Short: "Sync versioned spec fixtures through their inheritance chain",
	Long: `ucsync maintains a chain of versioned fixture directories where each
version inherits, overrides, or excludes files from its parent. Inherited
files materialize as ~-prefixed generated copies with computed @tag lines
and import targets rewritten for the version they land in.

Authored files are never touched: ucsync only writes, updates, and
garbage-collects the ~ files it generated itself.

Common commands:
  ucsync sync              # Regenerate all versions
  ucsync sync r03          # Regenerate one version
  ucsync status            # Show what a sync would change
  ucsync watch             # Resync on every edit
  ucsync clean             # Remove all generated files

Verbosity: -v shows per-file changes, -vv adds skips and resolution
detail, -vvv traces everything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	RootCmd.PersistentFlags().String("config", "", "Path to ucsync.toml (default: search upward from the working directory)")

	RootCmd.AddCommand(SyncCmd)
	RootCmd.AddCommand(CleanCmd)
	RootCmd.AddCommand(StatusCmd)
	RootCmd.AddCommand(VersionsCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(VersionCmd)
}

// loadConfig resolves tool configuration, honoring an explicit --config
// path over the upward search.
func loadConfig(cmd *cobra.Command) (*conf.Config, error) {
	var cfg *conf.Config
	var err error
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = conf.LoadFromFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load config from %s", path)
		}
	} else {
		cfg, err = conf.Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// newEmitter picks the output mode shared by sync, clean, and watch.
func newEmitter(cmd *cobra.Command) report.Emitter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return report.NewJSONEmitter()
	}
	verbosity, _ := cmd.Flags().GetCount("verbose")
	return report.NewCLIEmitter(verbosity)
}
