package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ucspec/ucsync/engine"
	"github.com/ucspec/ucsync/watch"
)

// WatchCmd resyncs on every change under the spec root.
var WatchCmd = &cobra.Command{
	Use:   "watch [version...]",
	Short: "Resync whenever authored files change",
	Long: `Sync once, then watch the spec root and resync the target versions on
every change to authored files or the manifest. The engine's own
generated writes are ignored, bursts of edits are debounced, and
consecutive resyncs are rate-limited.

A failing resync (for example a manifest saved mid-edit) is reported
and watching continues; the next change tries again. Stop with Ctrl-C.

Examples:
  ucsync watch            # Watch and resync all versions
  ucsync watch r03        # Watch but only resync r03`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args)
	},
}

func runWatch(cmd *cobra.Command, versions []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng := engine.New(cfg, newEmitter(cmd))
	w, err := watch.New(cfg, func() error {
		_, err := eng.Sync(versions, false)
		return err
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printf("Watching %s (Ctrl-C to stop)\n", cfg.Spec.Root)
	return w.Run(ctx)
}
