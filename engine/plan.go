package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ucspec/ucsync/errors"
	"github.com/ucspec/ucsync/fixture"
	"github.com/ucspec/ucsync/report"
	"github.com/ucspec/ucsync/resolve"
)

// FileOp is one planned write-pass operation on a generated file.
type FileOp struct {
	Version  string
	Path     fixture.LogicalPath
	File     string // version-relative on-disk name, ~ prefix applied
	DiskPath string
	Action   report.Action
	Content  string // desired bytes, empty for delete
}

// Change converts the op into its reportable form.
func (op FileOp) Change() report.Change {
	return report.Change{
		Version: op.Version,
		Path:    string(op.Path),
		File:    op.File,
		Action:  op.Action,
	}
}

// Plan is the ordered set of operations that brings one version's on-disk
// generated files in line with its resolved tree: renders first in logical
// path order, then garbage deletes in disk order.
type Plan struct {
	Version string
	Ops     []FileOp
}

// BuildPlan renders every generated entry of the tree and classifies it
// against disk: absent means create, different bytes mean update,
// identical bytes mean skip. On-disk generated files whose logical path is
// no longer generated in the tree become deletes.
//
// Planning only reads; nothing is written until the plan is applied.
// Render-time issues (dangling imports) go to the collector and do not
// block the plan.
func BuildPlan(root string, tree *resolve.Tree, issues *report.Collector) (*Plan, error) {
	plan := &Plan{Version: tree.VersionID}
	versionDir := filepath.Join(root, tree.VersionID)

	desired := make(map[fixture.LogicalPath]bool)

	for _, p := range tree.Paths() {
		e, _ := tree.Lookup(p)
		if e.Kind != fixture.Generated {
			continue
		}
		desired[p] = true

		content, renderIssues := resolve.RenderGenerated(e, tree)
		for _, issue := range renderIssues {
			issues.Add(issue)
		}

		file := p.DiskName(fixture.Generated)
		diskPath := filepath.Join(versionDir, filepath.FromSlash(file))

		var action report.Action
		existing, err := os.ReadFile(diskPath)
		switch {
		case os.IsNotExist(err):
			action = report.ActionCreate
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read generated file %s", diskPath)
		case string(existing) == content:
			action = report.ActionSkip
		default:
			action = report.ActionUpdate
		}

		plan.Ops = append(plan.Ops, FileOp{
			Version:  tree.VersionID,
			Path:     p,
			File:     file,
			DiskPath: diskPath,
			Action:   action,
			Content:  content,
		})
	}

	orphans, err := generatedOnDisk(versionDir, tree.VersionID, desired)
	if err != nil {
		return nil, err
	}
	plan.Ops = append(plan.Ops, orphans...)

	return plan, nil
}

// generatedOnDisk walks a version directory and returns a delete op for
// every ~-prefixed file whose logical path is not in keep. With an empty
// keep set it plans the removal of all generated files, which is exactly
// what clean wants.
func generatedOnDisk(versionDir, versionID string, keep map[fixture.LogicalPath]bool) ([]FileOp, error) {
	info, err := os.Stat(versionDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat version directory %s", versionDir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("version path %s is not a directory", versionDir)
	}

	var ops []FileOp
	walkErr := filepath.WalkDir(versionDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != versionDir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasPrefix(d.Name(), fixture.GeneratedPrefix) {
			return nil
		}

		rel, err := filepath.Rel(versionDir, p)
		if err != nil {
			return err
		}
		lp := fixture.FromDiskRel(rel)
		if keep[lp] {
			return nil
		}

		ops = append(ops, FileOp{
			Version:  versionID,
			Path:     lp,
			File:     filepath.ToSlash(rel),
			DiskPath: p,
			Action:   report.ActionDelete,
		})
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, "failed to scan generated files in %s", versionDir)
	}
	return ops, nil
}
