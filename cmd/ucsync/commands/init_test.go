package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucspec/ucsync/chain"
	"github.com/ucspec/ucsync/conf"
	"github.com/ucspec/ucsync/fixture"
)

func TestInitScaffold_Integration(t *testing.T) {
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	require.NoError(t, os.Chdir(t.TempDir()))

	require.NoError(t, runInit(false))

	// The scaffold must be a loadable project: config parses and validates,
	// the manifest parses, and the example fixture scans clean.
	cfg, err := conf.LoadFromFile("ucsync.toml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "specs", cfg.Spec.Root)
	assert.Equal(t, "ucspec.yaml", cfg.Spec.Manifest)

	m, err := chain.Load(cfg.ManifestPath())
	require.NoError(t, err)
	versions := m.Versions()
	require.Len(t, versions, 1)
	assert.Equal(t, "r01", versions[0].ID)
	require.Len(t, versions[0].Rules, 1)
	assert.Equal(t, "**/happy.http", versions[0].Rules[0].Pattern)

	data, err := os.ReadFile(filepath.Join("specs", "r01", "api", "happy.http"))
	require.NoError(t, err)
	ann, problems := fixture.Scan(string(data))
	assert.Empty(t, problems)
	assert.Equal(t, []string{"api_health"}, ann.Names)

	// A second init must refuse to clobber the project
	err = runInit(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, runInit(true))
}
