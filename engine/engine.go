// Package engine orchestrates sync runs: manifest load, per-version tree
// resolution, planning against the on-disk generated set, and the locked
// write pass that applies the plan.
//
// Every run recomputes everything from scratch. There is no incremental
// state and no cross-run cache, which is what makes a run after a crash or
// a manual edit converge without repair steps.
package engine

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ucspec/ucsync/chain"
	"github.com/ucspec/ucsync/conf"
	"github.com/ucspec/ucsync/errors"
	"github.com/ucspec/ucsync/logger"
	"github.com/ucspec/ucsync/report"
	"github.com/ucspec/ucsync/resolve"
	"github.com/ucspec/ucsync/version"
)

// Engine runs sync and clean passes over a spec root.
type Engine struct {
	cfg     *conf.Config
	emitter report.Emitter
	log     *zap.SugaredLogger
}

// New creates an engine for the given configuration. Run events go to the
// emitter; diagnostics go to the logger.
func New(cfg *conf.Config, emitter report.Emitter) *Engine {
	return &Engine{
		cfg:     cfg,
		emitter: emitter,
		log:     logger.ComponentLogger("engine"),
	}
}

// Sync regenerates the generated files of the named versions, or of every
// declared version when none are named. With dryRun the same pipeline runs
// read-only and the summary reports what would change.
//
// Recoverable issues (malformed annotations, dangling imports) never stop
// the run; they land in the summary. The returned error is reserved for
// fatal conditions: unreadable or invalid manifest, unknown version,
// filesystem failures, or a concurrent sync holding the lock.
func (e *Engine) Sync(versionIDs []string, dryRun bool) (*report.Summary, error) {
	manifest, err := chain.Load(e.cfg.ManifestPath())
	if err != nil {
		return nil, err
	}
	if !version.IsDev() {
		if err := manifest.CheckRequires(version.Version); err != nil {
			return nil, err
		}
	}

	targets, err := targetVersions(manifest, versionIDs)
	if err != nil {
		return nil, err
	}

	runID := report.NewRunID()
	summary := report.NewSummary(runID, versionList(targets), dryRun)
	log := logger.ChildLogger(e.log, logger.FieldRunID, runID)

	log.Infow("Sync starting",
		logger.FieldCount, len(targets),
		"dry_run", dryRun)

	if !dryRun {
		lock, err := AcquireLock(e.cfg.LockPath(), runID, e.cfg.Lock.BreakStale)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.Warnw("Failed to release lock", logger.FieldError, err)
			}
		}()
	}

	issues := report.NewCollector()
	resolver := resolve.NewResolver(e.cfg.Spec.Root, manifest, issues)

	// Resolve and plan every target before touching disk, so a fatal
	// error in a later version cannot leave an earlier one half-written.
	plans := make([]*Plan, 0, len(targets))
	for _, v := range targets {
		tree, err := resolver.Resolve(v.ID)
		if err != nil {
			return nil, err
		}
		for _, issue := range resolve.ValidateTree(tree) {
			issues.Add(issue)
		}
		plan, err := BuildPlan(e.cfg.Spec.Root, tree, issues)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	for _, plan := range plans {
		for _, op := range plan.Ops {
			if !dryRun {
				if err := e.applyOp(op); err != nil {
					e.emitter.EmitError("write", err)
					return nil, err
				}
			}
			change := op.Change()
			summary.Record(change)
			e.emitter.EmitChange(change, dryRun)
		}
	}

	summary.Issues = issues.Issues()
	summary.Finish()
	e.emitter.EmitSummary(summary)

	log.Infow("Sync finished",
		logger.FieldCreated, summary.Created(),
		logger.FieldUpdated, summary.Updated(),
		logger.FieldDeleted, summary.Deleted(),
		logger.FieldSkipped, summary.Skipped(),
		logger.FieldIssues, len(summary.Issues))

	return summary, nil
}

// Clean deletes every generated file under the named versions (all
// declared versions when none are named), forcing full regeneration on the
// next sync. Authored files are never touched.
func (e *Engine) Clean(versionIDs []string) (*report.Summary, error) {
	manifest, err := chain.Load(e.cfg.ManifestPath())
	if err != nil {
		return nil, err
	}

	targets, err := targetVersions(manifest, versionIDs)
	if err != nil {
		return nil, err
	}

	runID := report.NewRunID()
	summary := report.NewSummary(runID, versionList(targets), false)

	lock, err := AcquireLock(e.cfg.LockPath(), runID, e.cfg.Lock.BreakStale)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			e.log.Warnw("Failed to release lock", logger.FieldError, err)
		}
	}()

	for _, v := range targets {
		versionDir := e.versionDir(v.ID)
		// An empty keep set marks every generated file for deletion.
		ops, err := generatedOnDisk(versionDir, v.ID, nil)
		if err != nil {
			return nil, err
		}
		for _, op := range ops {
			if err := e.applyOp(op); err != nil {
				e.emitter.EmitError("clean", err)
				return nil, err
			}
			change := op.Change()
			summary.Record(change)
			e.emitter.EmitChange(change, false)
		}
	}

	summary.Finish()
	e.emitter.EmitSummary(summary)

	e.log.Infow("Clean finished",
		logger.FieldRunID, runID,
		logger.FieldDeleted, summary.Deleted())

	return summary, nil
}

func (e *Engine) versionDir(id string) string {
	return filepath.Join(e.cfg.Spec.Root, id)
}

// targetVersions validates the requested ids against the manifest,
// defaulting to every declared version in declaration order.
func targetVersions(m *chain.Manifest, ids []string) ([]*chain.Version, error) {
	if len(ids) == 0 {
		return m.Versions(), nil
	}
	out := make([]*chain.Version, 0, len(ids))
	for _, id := range ids {
		v, ok := m.Lookup(id)
		if !ok {
			return nil, errors.NewUnknownVersionError(id)
		}
		out = append(out, v)
	}
	return out, nil
}

func versionList(targets []*chain.Version) []string {
	ids := make([]string, len(targets))
	for i, v := range targets {
		ids[i] = v.ID
	}
	return ids
}
