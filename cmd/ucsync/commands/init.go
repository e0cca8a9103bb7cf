package commands

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ucspec/ucsync/conf"
	"github.com/ucspec/ucsync/errors"
)

// InitCmd scaffolds a fresh ucsync project in the working directory.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold ucsync.toml and a starter spec root",
	Long: `Create a ucsync.toml with the default settings, a specs/ directory with
a starter manifest, and one example fixture to sync.

Refuses to overwrite existing files unless --force is given.

Example:
  ucsync init
  ucsync sync`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return runInit(force)
	},
}

func init() {
	InitCmd.Flags().Bool("force", false, "Overwrite existing files")
}

// scaffoldConfig mirrors conf.Config with toml tags so the generated file
// round-trips through viper's lowercase keys.
type scaffoldConfig struct {
	Spec struct {
		Root     string `toml:"root"`
		Manifest string `toml:"manifest"`
	} `toml:"spec"`
	Log struct {
		Theme string `toml:"theme"`
	} `toml:"log"`
	Watch struct {
		DebounceMs         int `toml:"debounce_ms"`
		MinIntervalSeconds int `toml:"min_interval_seconds"`
	} `toml:"watch"`
	Lock struct {
		BreakStale bool `toml:"break_stale"`
	} `toml:"lock"`
}

const starterManifest = `# ucsync version manifest.
#
# Versions are declared parent-first. A version inherits every file from
# its parent (materialized as ~-prefixed copies), minus exclusions, plus
# its own local files. tag_rules attach tags to files by glob; a child
# redeclaring a pattern replaces the parent's tags for that pattern.
versions:
  r01:
    tags: [r01]
    tag_rules:
      - pattern: "**/happy.http"
        tags: [happy]
`

const starterFixture = `# @name api_health
GET /api/health
`

func runInit(force bool) error {
	cfg := scaffoldConfig{}
	cfg.Spec.Root = "specs"
	cfg.Spec.Manifest = "ucspec.yaml"
	cfg.Log.Theme = "everforest"
	cfg.Watch.DebounceMs = 400
	cfg.Watch.MinIntervalSeconds = 2
	cfg.Lock.BreakStale = true

	tomlBytes, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to render ucsync.toml")
	}

	files := []struct {
		path string
		data []byte
	}{
		{"ucsync.toml", tomlBytes},
		{filepath.Join(cfg.Spec.Root, cfg.Spec.Manifest), []byte(starterManifest)},
		{filepath.Join(cfg.Spec.Root, "r01", "api", "happy.http"), []byte(starterFixture)},
	}

	if !force {
		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil {
				return errors.Newf("%s already exists (use --force to overwrite)", f.path)
			}
		}
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), conf.DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", f.path)
		}
		if err := os.WriteFile(f.path, f.data, conf.DefaultFilePermissions); err != nil {
			return errors.Wrapf(err, "failed to write %s", f.path)
		}
		pterm.Printf("%s %s\n", pterm.Green("created"), f.path)
	}

	pterm.Println()
	pterm.Info.Println("Edit specs/ucspec.yaml to declare more versions, then run: ucsync sync")
	return nil
}
