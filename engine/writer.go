package engine

import (
	"os"
	"path/filepath"

	"github.com/ucspec/ucsync/conf"
	"github.com/ucspec/ucsync/errors"
	"github.com/ucspec/ucsync/report"
)

// applyOp materializes one planned operation. Skips cost nothing; deletes
// also prune directories the removal emptied. Failures abort the write
// pass: the next successful run recomputes everything and converges, so
// there is no rollback.
func (e *Engine) applyOp(op FileOp) error {
	switch op.Action {
	case report.ActionSkip:
		return nil

	case report.ActionCreate, report.ActionUpdate:
		if err := os.MkdirAll(filepath.Dir(op.DiskPath), conf.DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", op.DiskPath)
		}
		if err := os.WriteFile(op.DiskPath, []byte(op.Content), conf.DefaultFilePermissions); err != nil {
			return errors.Wrapf(err, "failed to write %s", op.DiskPath)
		}
		return nil

	case report.ActionDelete:
		if err := os.Remove(op.DiskPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to delete %s", op.DiskPath)
		}
		pruneEmptyDirs(filepath.Dir(op.DiskPath), filepath.Join(e.cfg.Spec.Root, op.Version))
		return nil
	}

	return errors.Newf("unknown plan action %q", op.Action)
}

// pruneEmptyDirs removes directories a delete emptied, walking upward and
// stopping at the version root (which always stays, even when empty).
// Best effort: a directory that refuses to go just ends the walk.
func pruneEmptyDirs(dir, stop string) {
	stop = filepath.Clean(stop)
	for dir = filepath.Clean(dir); dir != stop; {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if os.Remove(dir) != nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
