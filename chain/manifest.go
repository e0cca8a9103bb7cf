// Package chain loads and validates the version manifest: the ordered set
// of version declarations, their inheritance chain, tag rules, and
// exclusions. All structural validation happens here, once per run, so the
// resolver can assume a well-formed chain.
package chain

import (
	"os"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ucspec/ucsync/errors"
)

// TagRule maps a glob pattern to the tags applied to every matching path.
// Patterns use shell-glob semantics: ** matches any depth, * stays within
// a segment.
type TagRule struct {
	Pattern string   `yaml:"pattern"`
	Tags    []string `yaml:"tags"`
}

// Version is one declared version in the manifest.
type Version struct {
	ID      string
	Parent  string   // empty for chain roots
	Tags    []string // version-level tags, declaration order
	Rules   []TagRule
	Exclude []string // logical paths dropped from the inherited tree
}

// Manifest is the parsed, validated version configuration.
type Manifest struct {
	// Requires is the raw engine-version constraint, empty if absent.
	Requires string

	// Order holds version ids in declaration order.
	Order []string

	byID     map[string]*Version
	requires *semver.Constraints
}

// Load reads and parses the manifest file at path.
func Load(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", manifestPath)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", manifestPath)
	}
	return m, nil
}

// Parse parses and validates manifest bytes. Any structural problem is
// fatal: the caller gets ErrInvalidManifest before a single file is
// resolved or written.
func Parse(data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewInvalidManifestError("yaml: %v", err)
	}

	m := &Manifest{byID: make(map[string]*Version)}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.NewInvalidManifestError("manifest is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.NewInvalidManifestError("line %d: manifest root must be a mapping", root.Line)
	}

	sawVersions := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "requires":
			if err := val.Decode(&m.Requires); err != nil {
				return nil, errors.NewInvalidManifestError("line %d: requires must be a string: %v", val.Line, err)
			}
		case "versions":
			sawVersions = true
			if err := m.parseVersions(val); err != nil {
				return nil, err
			}
		default:
			return nil, errors.NewInvalidManifestError("line %d: unknown key %q", key.Line, key.Value)
		}
	}

	if !sawVersions {
		return nil, errors.NewInvalidManifestError("manifest has no versions mapping")
	}

	if m.Requires != "" {
		c, err := semver.NewConstraint(m.Requires)
		if err != nil {
			return nil, errors.NewInvalidManifestError("invalid requires constraint %q: %v", m.Requires, err)
		}
		m.requires = c
	}

	if err := m.detectCycles(); err != nil {
		return nil, err
	}

	return m, nil
}

// parseVersions walks the versions mapping with the yaml Node API so that
// declaration order is preserved. Map-based decoding would lose it, and
// order is semantic: a version may only inherit from an earlier one.
func (m *Manifest) parseVersions(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.NewInvalidManifestError("line %d: versions must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, body := node.Content[i], node.Content[i+1]
		id := key.Value
		if id == "" {
			return errors.NewInvalidManifestError("line %d: version id cannot be empty", key.Line)
		}
		if _, exists := m.byID[id]; exists {
			return errors.NewInvalidManifestError("line %d: duplicate version id %q", key.Line, id)
		}

		v := &Version{ID: id}
		if err := m.parseVersionBody(v, body); err != nil {
			return err
		}

		// inherits must name an already-declared version: the chain is
		// declared parent-first, so a forward reference (or a typo) is
		// caught right here.
		if v.Parent != "" {
			if _, ok := m.byID[v.Parent]; !ok {
				return errors.NewInvalidManifestError(
					"line %d: version %q inherits undeclared version %q (versions must be declared parent-first)",
					key.Line, id, v.Parent)
			}
		}

		m.byID[id] = v
		m.Order = append(m.Order, id)
	}

	return nil
}

func (m *Manifest) parseVersionBody(v *Version, body *yaml.Node) error {
	if body.Kind == yaml.ScalarNode && body.Value == "" {
		// "r01:" with no body is a bare version
		return nil
	}
	if body.Kind != yaml.MappingNode {
		return errors.NewInvalidManifestError("line %d: version %q must be a mapping", body.Line, v.ID)
	}

	for i := 0; i+1 < len(body.Content); i += 2 {
		key, val := body.Content[i], body.Content[i+1]
		switch key.Value {
		case "inherits":
			if err := val.Decode(&v.Parent); err != nil {
				return errors.NewInvalidManifestError("line %d: version %q: inherits must be a string: %v", val.Line, v.ID, err)
			}
		case "tags":
			if err := val.Decode(&v.Tags); err != nil {
				return errors.NewInvalidManifestError("line %d: version %q: tags must be a string list: %v", val.Line, v.ID, err)
			}
		case "tag_rules":
			if err := val.Decode(&v.Rules); err != nil {
				return errors.NewInvalidManifestError("line %d: version %q: malformed tag_rules: %v", val.Line, v.ID, err)
			}
			for _, rule := range v.Rules {
				if rule.Pattern == "" {
					return errors.NewInvalidManifestError("line %d: version %q: tag rule with empty pattern", val.Line, v.ID)
				}
				if !doublestar.ValidatePattern(rule.Pattern) {
					return errors.NewInvalidManifestError("line %d: version %q: malformed glob pattern %q", val.Line, v.ID, rule.Pattern)
				}
			}
		case "exclude":
			if err := val.Decode(&v.Exclude); err != nil {
				return errors.NewInvalidManifestError("line %d: version %q: exclude must be a path list: %v", val.Line, v.ID, err)
			}
			for j, p := range v.Exclude {
				clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
				if clean == "." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
					return errors.NewInvalidManifestError("line %d: version %q: exclude path %q escapes the version tree", val.Line, v.ID, p)
				}
				v.Exclude[j] = clean
			}
		default:
			return errors.NewInvalidManifestError("line %d: version %q: unknown key %q", key.Line, v.ID, key.Value)
		}
	}

	return nil
}

// detectCycles walks parent pointers from every version with a visited
// set. Parent-first declaration already makes cycles unrepresentable, but
// the chain invariant is cheap to assert and this is the one place that
// owns it.
func (m *Manifest) detectCycles() error {
	for _, id := range m.Order {
		visited := map[string]bool{}
		for cur := id; cur != ""; {
			if visited[cur] {
				return errors.NewInvalidManifestError("version %q is its own ancestor", cur)
			}
			visited[cur] = true
			v, ok := m.byID[cur]
			if !ok {
				// Parents are checked at parse time; nothing to walk.
				break
			}
			cur = v.Parent
		}
	}
	return nil
}

// Versions returns all versions in declaration order.
func (m *Manifest) Versions() []*Version {
	out := make([]*Version, 0, len(m.Order))
	for _, id := range m.Order {
		out = append(out, m.byID[id])
	}
	return out
}

// Lookup returns the version with the given id.
func (m *Manifest) Lookup(id string) (*Version, bool) {
	v, ok := m.byID[id]
	return v, ok
}

// CheckRequires validates the running engine version against the
// manifest's requires constraint. A manifest without a constraint always
// passes.
func (m *Manifest) CheckRequires(engineVersion string) error {
	if m.requires == nil {
		return nil
	}
	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid engine version %q", engineVersion)
	}
	if !m.requires.Check(v) {
		return errors.NewInvalidManifestError("manifest requires engine %s, but running %s", m.Requires, engineVersion)
	}
	return nil
}
