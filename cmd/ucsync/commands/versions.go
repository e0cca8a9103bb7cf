package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ucspec/ucsync/chain"
)

// VersionsCmd lists the declared version chain.
var VersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the version chain",
	Long: `Print every version from the manifest in declaration order with its
parent, tags, and rule/exclusion counts.

Examples:
  ucsync versions
  ucsync versions --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersions(cmd)
	},
}

func init() {
	VersionsCmd.Flags().BoolP("json", "j", false, "Output the chain as JSON")
}

type versionRow struct {
	ID       string   `json:"id"`
	Parent   string   `json:"parent,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Rules    int      `json:"rules"`
	Excludes int      `json:"excludes"`
}

func runVersions(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	manifest, err := chain.Load(cfg.ManifestPath())
	if err != nil {
		return err
	}

	rows := make([]versionRow, 0)
	for _, v := range manifest.Versions() {
		rows = append(rows, versionRow{
			ID:       v.ID,
			Parent:   v.Parent,
			Tags:     v.Tags,
			Rules:    len(v.Rules),
			Excludes: len(v.Exclude),
		})
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		output, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%-10s %-10s %-30s %-6s %s\n", "VERSION", "INHERITS", "TAGS", "RULES", "EXCLUDES")
	fmt.Printf("%-10s %-10s %-30s %-6s %s\n", "-------", "--------", "----", "-----", "--------")
	for _, r := range rows {
		parent := r.Parent
		if parent == "" {
			parent = "-"
		}
		tags := strings.Join(r.Tags, ", ")
		if tags == "" {
			tags = "-"
		}
		fmt.Printf("%-10s %-10s %-30s %-6d %d\n", r.ID, parent, tags, r.Rules, r.Excludes)
	}
	fmt.Printf("\nTotal: %d version(s)\n", len(rows))
	return nil
}
