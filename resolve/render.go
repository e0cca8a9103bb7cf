package resolve

import (
	"strings"

	"github.com/ucspec/ucsync/fixture"
	"github.com/ucspec/ucsync/report"
)

// RenderGenerated produces the exact bytes of a generated file for the
// given tree: the computed tag line first (omitted when the tag set is
// empty), then the origin content with any authored or stale @tag lines
// stripped and @import targets rewritten for this tree's local/generated
// split. Unresolvable imports are left as authored and reported.
//
// Rendering is deterministic: identical tree state yields identical bytes,
// which is what lets the writer skip untouched files.
func RenderGenerated(e *Entry, tree *Tree) (string, []report.Issue) {
	var issues []report.Issue

	stale := make(map[int]bool, len(e.Ann.TagLines))
	for _, n := range e.Ann.TagLines {
		stale[n] = true
	}
	importAt := make(map[int]fixture.Import, len(e.Ann.Imports))
	for _, imp := range e.Ann.Imports {
		importAt[imp.Line] = imp
	}

	lines := strings.Split(e.Content, "\n")
	kept := make([]string, 0, len(lines)+1)

	if tagLine := fixture.TagLine(e.Tags); tagLine != "" {
		kept = append(kept, tagLine)
	}

	for i, line := range lines {
		lineNo := i + 1
		if stale[lineNo] {
			continue
		}
		if imp, ok := importAt[lineNo]; ok {
			if target, found := importedEntry(tree, e.Path, imp.Target); found {
				if rewritten := rewriteTarget(imp.Target, target.Kind); rewritten != imp.Target {
					line = strings.Replace(line, imp.Target, rewritten, 1)
				}
			} else {
				issues = append(issues, report.DanglingImport(tree.VersionID, string(e.Path), imp.Line, imp.Target))
			}
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n"), issues
}
