package fixture

import (
	"path"
	"path/filepath"
	"strings"
)

// LogicalPath is the version-relative, forward-slash identity of a fixture
// (e.g. "cart/checkout/post/happy.http"). Two files in different versions
// are the same fixture iff their LogicalPath matches; whether the on-disk
// name carries the ~ prefix is a rendering decision made from the Kind,
// never encoded in the path itself.
type LogicalPath string

// Base returns the final path segment.
func (p LogicalPath) Base() string {
	return path.Base(string(p))
}

// Dir returns the directory portion, or "." for top-level paths.
func (p LogicalPath) Dir() string {
	return path.Dir(string(p))
}

// DiskName renders the version-relative on-disk path for the given kind:
// generated files get the ~ prefix on the final segment, local and
// infrastructure files use the bare name. Forward slashes; callers convert
// for the OS when touching disk.
func (p LogicalPath) DiskName(k Kind) string {
	if k != Generated {
		return string(p)
	}
	dir := p.Dir()
	if dir == "." {
		return GeneratedPrefix + p.Base()
	}
	return dir + "/" + GeneratedPrefix + p.Base()
}

// Join builds a LogicalPath from a directory and a basename, cleaning the
// result. dir may be "." or empty for top-level files.
func Join(dir, name string) LogicalPath {
	if dir == "" || dir == "." {
		return LogicalPath(path.Clean(name))
	}
	return LogicalPath(path.Clean(dir + "/" + name))
}

// FromDiskRel converts a version-relative on-disk path (OS separators
// allowed) into its LogicalPath, stripping a ~ prefix from the final
// segment if present.
func FromDiskRel(rel string) LogicalPath {
	clean := path.Clean(filepath.ToSlash(rel))
	dir := path.Dir(clean)
	base := strings.TrimPrefix(path.Base(clean), GeneratedPrefix)
	if dir == "." {
		return LogicalPath(base)
	}
	return LogicalPath(dir + "/" + base)
}
