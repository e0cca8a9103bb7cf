package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucspec/ucsync/errors"
)

const sampleManifest = `
requires: ">= 0.1.0"
versions:
  r01:
    tags: [r01, baseline]
    tag_rules:
      - pattern: "**/happy.http"
        tags: [happy]
      - pattern: "cart/**"
        tags: [cart]
  r02:
    inherits: r01
    tags: [r02]
    exclude:
      - cart/checkout/post/edge.http
  r03:
    inherits: r02
`

func TestParse_DeclarationOrder(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"r01", "r02", "r03"}, m.Order)
	assert.Equal(t, ">= 0.1.0", m.Requires)

	r01, ok := m.Lookup("r01")
	require.True(t, ok)
	assert.Empty(t, r01.Parent)
	assert.Equal(t, []string{"r01", "baseline"}, r01.Tags)
	require.Len(t, r01.Rules, 2)
	assert.Equal(t, TagRule{Pattern: "**/happy.http", Tags: []string{"happy"}}, r01.Rules[0])

	r02, ok := m.Lookup("r02")
	require.True(t, ok)
	assert.Equal(t, "r01", r02.Parent)
	assert.Equal(t, []string{"cart/checkout/post/edge.http"}, r02.Exclude)

	r03, ok := m.Lookup("r03")
	require.True(t, ok)
	assert.Equal(t, "r02", r03.Parent)
	assert.Empty(t, r03.Tags)
}

func TestParse_BareVersion(t *testing.T) {
	m, err := Parse([]byte("versions:\n  r01:\n"))
	require.NoError(t, err)

	v, ok := m.Lookup("r01")
	require.True(t, ok)
	assert.Empty(t, v.Parent)
	assert.Empty(t, v.Tags)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{
			"duplicate id",
			"versions:\n  r01:\n  r01:\n",
			"duplicate version id",
		},
		{
			"forward reference",
			"versions:\n  r01:\n    inherits: r02\n  r02:\n",
			"undeclared version",
		},
		{
			"unknown parent",
			"versions:\n  r02:\n    inherits: nope\n",
			"undeclared version",
		},
		{
			"malformed glob",
			"versions:\n  r01:\n    tag_rules:\n      - pattern: \"[\"\n        tags: [x]\n",
			"malformed glob pattern",
		},
		{
			"empty rule pattern",
			"versions:\n  r01:\n    tag_rules:\n      - pattern: \"\"\n        tags: [x]\n",
			"empty pattern",
		},
		{
			"unknown top-level key",
			"verions:\n  r01:\n",
			"unknown key",
		},
		{
			"unknown version key",
			"versions:\n  r01:\n    excldue: [a.http]\n",
			"unknown key",
		},
		{
			"exclude escapes tree",
			"versions:\n  r01:\n    exclude: [../outside.http]\n",
			"escapes the version tree",
		},
		{
			"missing versions mapping",
			"requires: \">= 0.1.0\"\n",
			"no versions mapping",
		},
		{
			"empty manifest",
			"",
			"manifest is empty",
		},
		{
			"bad requires constraint",
			"requires: \"not a constraint\"\nversions:\n  r01:\n",
			"invalid requires constraint",
		},
		{
			"not yaml",
			"versions: [\n",
			"yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest))
			require.Error(t, err)
			assert.True(t, errors.IsInvalidManifest(err), "expected ErrInvalidManifest, got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_ExcludeNormalized(t *testing.T) {
	m, err := Parse([]byte("versions:\n  r01:\n    exclude: [\"a/./b/../c.http\"]\n"))
	require.NoError(t, err)

	v, _ := m.Lookup("r01")
	assert.Equal(t, []string{"a/c.http"}, v.Exclude)
}

func TestCheckRequires(t *testing.T) {
	m, err := Parse([]byte("requires: \">= 0.2.0, < 1.0.0\"\nversions:\n  r01:\n"))
	require.NoError(t, err)

	assert.NoError(t, m.CheckRequires("0.3.1"))

	err = m.CheckRequires("0.1.0")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidManifest(err))
	assert.Contains(t, err.Error(), "requires engine")

	err = m.CheckRequires("banana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid engine version")
}

func TestCheckRequires_NoConstraint(t *testing.T) {
	m, err := Parse([]byte("versions:\n  r01:\n"))
	require.NoError(t, err)
	assert.NoError(t, m.CheckRequires("0.0.1"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/ucspec.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}
