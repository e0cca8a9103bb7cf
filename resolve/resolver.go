// Package resolve computes the resolved file tree of a version: which
// logical paths are visible, which concrete file backs each one, what tags
// each file carries, and how cross-file references must be rewritten.
//
// Trees are immutable values recomputed from disk on every run. Nothing in
// this package caches across invocations or touches the filesystem beyond
// reading; that is what makes sync idempotent and dry-run a pure reuse of
// the same pipeline.
package resolve

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ucspec/ucsync/chain"
	"github.com/ucspec/ucsync/errors"
	"github.com/ucspec/ucsync/fixture"
	"github.com/ucspec/ucsync/logger"
	"github.com/ucspec/ucsync/report"
)

// Entry is one resolved file in a version's tree.
type Entry struct {
	Path    fixture.LogicalPath
	Kind    fixture.Kind
	Origin  string // version id where the content was authored
	Source  string // path of the authored file on disk
	Content string
	Ann     fixture.Annotations
	Tags    []string // computed; nil for infrastructure
}

// RejectReason says why an inherited origin lost its place in a tree.
type RejectReason string

const (
	ReasonExcluded RejectReason = "excluded"
	ReasonShadowed RejectReason = "shadowed"
)

// Rejection records an excluded or shadowed origin. Kept for diagnostics:
// surfaced at -vv, never an error.
type Rejection struct {
	Path   fixture.LogicalPath
	Origin string
	Reason RejectReason
}

// Tree is the resolved file set of one version.
type Tree struct {
	VersionID string
	Entries   map[fixture.LogicalPath]*Entry
	Rejected  []Rejection
}

// Paths returns the tree's logical paths in sorted order.
func (t *Tree) Paths() []fixture.LogicalPath {
	paths := make([]fixture.LogicalPath, 0, len(t.Entries))
	for p := range t.Entries {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

// Lookup returns the entry at a logical path.
func (t *Tree) Lookup(p fixture.LogicalPath) (*Entry, bool) {
	e, ok := t.Entries[p]
	return e, ok
}

// Resolver computes trees parent-first, memoized for the duration of one
// run. Scanning problems found along the way land in the shared collector.
type Resolver struct {
	root     string
	manifest *chain.Manifest
	issues   *report.Collector
	memo     map[string]*Tree
	log      *zap.SugaredLogger
}

// NewResolver creates a resolver rooted at the spec directory.
func NewResolver(root string, manifest *chain.Manifest, issues *report.Collector) *Resolver {
	return &Resolver{
		root:     root,
		manifest: manifest,
		issues:   issues,
		memo:     make(map[string]*Tree),
		log:      logger.ComponentLogger("resolve"),
	}
}

// Resolve computes the resolved tree for a version.
//
// Order matters and mirrors the inheritance semantics: inherit the
// parent's tree, drop this version's exclusions from that inherited base,
// then overlay local files. A local file therefore re-introduces an
// excluded path, and always shadows an inherited one regardless of how
// many ancestor hops the inherited file traveled.
func (r *Resolver) Resolve(versionID string) (*Tree, error) {
	if t, ok := r.memo[versionID]; ok {
		return t, nil
	}

	v, ok := r.manifest.Lookup(versionID)
	if !ok {
		return nil, errors.NewUnknownVersionError(versionID)
	}

	tree := &Tree{VersionID: versionID, Entries: make(map[fixture.LogicalPath]*Entry)}

	if v.Parent != "" {
		parent, err := r.Resolve(v.Parent)
		if err != nil {
			return nil, err
		}
		for p, e := range parent.Entries {
			tree.Entries[p] = inherit(e)
		}
	}

	for _, raw := range v.Exclude {
		p := fixture.LogicalPath(raw)
		e, present := tree.Entries[p]
		if !present {
			r.log.Debugw("Exclude names a path absent from the inherited tree",
				logger.FieldVersion, versionID, logger.FieldPath, raw)
			continue
		}
		delete(tree.Entries, p)
		tree.Rejected = append(tree.Rejected, Rejection{Path: p, Origin: e.Origin, Reason: ReasonExcluded})
		r.log.Debugw("Inherited entry excluded",
			logger.FieldVersion, versionID,
			logger.FieldPath, raw,
			logger.FieldOrigin, e.Origin)
	}

	if err := r.overlayLocal(v, tree); err != nil {
		return nil, err
	}

	rules := r.manifest.EffectiveRules(versionID)
	for _, e := range tree.Entries {
		if e.Kind == fixture.Infrastructure {
			continue
		}
		e.Tags = TagsFor(v, rules, e.Path)
	}

	r.log.Debugw("Tree resolved",
		logger.FieldVersion, versionID,
		logger.FieldCount, len(tree.Entries),
		"rejected", len(tree.Rejected))

	r.memo[versionID] = tree
	return tree, nil
}

// inherit copies a parent entry into a child tree. Authored content
// becomes generated in the child; infrastructure stays infrastructure and
// is never tagged. Origin and source always point at where the content was
// last authored.
func inherit(e *Entry) *Entry {
	kind := e.Kind
	if kind == fixture.Local {
		kind = fixture.Generated
	}
	return &Entry{
		Path:    e.Path,
		Kind:    kind,
		Origin:  e.Origin,
		Source:  e.Source,
		Content: e.Content,
		Ann:     e.Ann,
	}
}

// overlayLocal walks the version directory and overlays every authored
// file onto the tree. Generated outputs (~ prefix) and dotfiles are not
// source files and are skipped; a missing directory just means the version
// has no local files yet.
func (r *Resolver) overlayLocal(v *chain.Version, tree *Tree) error {
	dir := filepath.Join(r.root, v.ID)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		r.log.Debugw("Version directory does not exist",
			logger.FieldVersion, v.ID, logger.FieldPath, dir)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to stat version directory %s", dir)
	}
	if !info.IsDir() {
		return errors.Newf("version path %s is not a directory", dir)
	}

	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		kind, isSource := fixture.ClassifySource(d.Name())
		if !isSource {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		lp := fixture.FromDiskRel(rel)

		raw, err := os.ReadFile(p)
		if err != nil {
			return errors.Wrapf(err, "failed to read fixture %s", p)
		}
		content := string(raw)

		ann, problems := fixture.Scan(content)
		for _, problem := range problems {
			r.issues.Add(report.MalformedAnnotation(v.ID, string(lp), problem.Line, problem.Directive, problem.Detail))
		}

		if prev, shadowed := tree.Entries[lp]; shadowed {
			tree.Rejected = append(tree.Rejected, Rejection{Path: lp, Origin: prev.Origin, Reason: ReasonShadowed})
			r.log.Debugw("Local file shadows inherited entry",
				logger.FieldVersion, v.ID,
				logger.FieldPath, string(lp),
				logger.FieldOrigin, prev.Origin)
		}

		tree.Entries[lp] = &Entry{
			Path:    lp,
			Kind:    kind,
			Origin:  v.ID,
			Source:  p,
			Content: content,
			Ann:     ann,
		}
		return nil
	})
	if walkErr != nil {
		return errors.Wrapf(walkErr, "failed to walk version directory %s", dir)
	}
	return nil
}
