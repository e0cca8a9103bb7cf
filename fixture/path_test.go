package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiskName(t *testing.T) {
	tests := []struct {
		path LogicalPath
		kind Kind
		want string
	}{
		{"cart/checkout/post/happy.http", Generated, "cart/checkout/post/~happy.http"},
		{"cart/checkout/post/happy.http", Local, "cart/checkout/post/happy.http"},
		{"_imports.http", Infrastructure, "_imports.http"},
		{"happy.http", Generated, "~happy.http"},
		{"happy.http", Local, "happy.http"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.path.DiskName(tt.kind), "DiskName(%q, %s)", tt.path, tt.kind)
	}
}

func TestFromDiskRel(t *testing.T) {
	tests := []struct {
		rel  string
		want LogicalPath
	}{
		{"cart/checkout/post/~happy.http", "cart/checkout/post/happy.http"},
		{"cart/checkout/post/happy.http", "cart/checkout/post/happy.http"},
		{"~happy.http", "happy.http"},
		{"_imports.http", "_imports.http"},
		{"a/./b/../c.http", "a/c.http"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromDiskRel(tt.rel), "FromDiskRel(%q)", tt.rel)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, LogicalPath("a/b.http"), Join("a", "b.http"))
	assert.Equal(t, LogicalPath("b.http"), Join(".", "b.http"))
	assert.Equal(t, LogicalPath("b.http"), Join("", "b.http"))
	assert.Equal(t, LogicalPath("a/c.http"), Join("a/b", "../c.http"))
}

func TestBaseDir(t *testing.T) {
	p := LogicalPath("cart/checkout/happy.http")
	assert.Equal(t, "happy.http", p.Base())
	assert.Equal(t, "cart/checkout", p.Dir())

	top := LogicalPath("happy.http")
	assert.Equal(t, "happy.http", top.Base())
	assert.Equal(t, ".", top.Dir())
}

func TestClassifySource(t *testing.T) {
	tests := []struct {
		basename string
		kind     Kind
		source   bool
	}{
		{"happy.http", Local, true},
		{"_imports.http", Infrastructure, true},
		{"_fixtures.http", Infrastructure, true},
		{"~happy.http", Generated, false},
		{".gitignore", Local, false},
		{".ucsync.lock", Local, false},
		{"", Local, false},
	}

	for _, tt := range tests {
		kind, source := ClassifySource(tt.basename)
		assert.Equal(t, tt.source, source, "ClassifySource(%q) source", tt.basename)
		if source {
			assert.Equal(t, tt.kind, kind, "ClassifySource(%q) kind", tt.basename)
		}
	}
}
