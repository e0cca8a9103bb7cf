package resolve

import (
	"fmt"
	"path"
	"strings"

	"github.com/ucspec/ucsync/fixture"
	"github.com/ucspec/ucsync/report"
)

// A file's on-disk name changes identity across versions: happy.http where
// it is locally authored, ~happy.http where it is inherited. Import
// targets are authored against one of those spellings and must be
// re-rendered for the tree being generated. Internally everything works on
// the LogicalPath; the ~ prefix is applied exactly once, here and in the
// writer.

// resolveImportTarget maps an authored @import target to the logical path
// it names, relative to the importing file. Returns false for targets that
// cannot name anything in a version tree (absolute paths, traversal above
// the version root).
func resolveImportTarget(from fixture.LogicalPath, target string) (fixture.LogicalPath, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(target), "\\", "/")
	if t == "" || strings.HasPrefix(t, "/") {
		return "", false
	}

	slash := strings.LastIndex(t, "/")
	dir, base := "", t
	if slash >= 0 {
		dir, base = t[:slash], t[slash+1:]
	}
	base = strings.TrimPrefix(base, fixture.GeneratedPrefix)
	if base == "" {
		return "", false
	}

	joined := path.Join(from.Dir(), dir, base)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	return fixture.LogicalPath(joined), true
}

// rewriteTarget renders an authored import target for the resolved kind of
// its destination: ~-prefixed final segment for generated files, bare for
// local and infrastructure. The author's directory prefix text (./, ../,
// nested dirs) is preserved byte-for-byte.
func rewriteTarget(target string, kind fixture.Kind) string {
	slash := strings.LastIndex(target, "/")
	prefix, base := "", target
	if slash >= 0 {
		prefix, base = target[:slash+1], target[slash+1:]
	}
	base = strings.TrimPrefix(base, fixture.GeneratedPrefix)
	if kind == fixture.Generated {
		base = fixture.GeneratedPrefix + base
	}
	return prefix + base
}

// importedEntry resolves an @import target against the tree.
func importedEntry(tree *Tree, from fixture.LogicalPath, target string) (*Entry, bool) {
	lp, ok := resolveImportTarget(from, target)
	if !ok {
		return nil, false
	}
	e, ok := tree.Entries[lp]
	return e, ok
}

// ValidateTree checks reference integrity across a resolved tree:
//
//   - @import targets in authored (local and infrastructure) files must
//     exist in the tree. Generated entries are checked when rendered, so
//     they are not double-reported here.
//   - every @ref / @forceRef target must be declared via @name in the
//     referencing file itself or somewhere in its transitive import
//     closure within the tree.
//
// Both conditions are recoverable: they become issues, never errors.
func ValidateTree(tree *Tree) []report.Issue {
	var issues []report.Issue

	for _, p := range tree.Paths() {
		e := tree.Entries[p]

		if e.Kind != fixture.Generated {
			for _, imp := range e.Ann.Imports {
				if _, ok := importedEntry(tree, e.Path, imp.Target); !ok {
					issues = append(issues, report.DanglingImport(tree.VersionID, string(e.Path), imp.Line, imp.Target))
				}
			}
		}

		if len(e.Ann.Refs) == 0 {
			continue
		}
		visible := visibleNames(tree, e)
		for _, ref := range e.Ann.Refs {
			if visible[ref.Target] {
				continue
			}
			directive := fixture.DirectiveRef
			if ref.Force {
				directive = fixture.DirectiveForceRef
			}
			issues = append(issues, report.Issue{
				Kind:      report.IssueMalformedAnnotation,
				Version:   tree.VersionID,
				Path:      string(e.Path),
				Line:      ref.Line,
				Directive: directive,
				Detail:    fmt.Sprintf("reference %q does not resolve to a declared name in this file or its imports", ref.Target),
			})
		}
	}

	return issues
}

// visibleNames collects the names declared by an entry and its transitive
// import closure. Import cycles are tolerated (each file visited once).
func visibleNames(tree *Tree, e *Entry) map[string]bool {
	names := make(map[string]bool)
	visited := make(map[fixture.LogicalPath]bool)

	var walk func(*Entry)
	walk = func(cur *Entry) {
		if visited[cur.Path] {
			return
		}
		visited[cur.Path] = true
		for _, n := range cur.Ann.Names {
			names[n] = true
		}
		for _, imp := range cur.Ann.Imports {
			if target, ok := importedEntry(tree, cur.Path, imp.Target); ok {
				walk(target)
			}
		}
	}
	walk(e)

	return names
}
