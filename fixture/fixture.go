// Package fixture models the files the sync engine moves around: logical
// paths that identify a fixture across the version chain, the three file
// kinds (local, infrastructure, generated), and the annotation scanner
// that extracts structural directives from fixture text.
//
// The package never interprets request/assertion bodies. It only knows
// about the line-oriented directives:
//
//	# @name checkout_happy
//	# @ref checkout_happy
//	# @forceRef login
//	# @import ./happy.http
//	# @tag r01, happy
package fixture

import "strings"

// GeneratedPrefix marks an on-disk file as engine output. Generated files
// are derived from an ancestor's local file and are never hand-edited.
const GeneratedPrefix = "~"

// InfrastructurePrefix marks shared plumbing files (_imports.http,
// _fixtures.http) that are inherited verbatim and never tagged.
const InfrastructurePrefix = "_"

// Kind classifies how a resolved file came to exist in a version's tree.
type Kind int

const (
	// Local files are authored by humans directly in the version directory.
	Local Kind = iota
	// Infrastructure files are shared plumbing, inherited as-is and never
	// carrying a tag line.
	Infrastructure
	// Generated files are materialized by the engine from an ancestor's
	// local file, with a computed tag line and rewritten imports.
	Generated
)

// String returns the lowercase kind name used in logs and JSON output.
func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Infrastructure:
		return "infrastructure"
	case Generated:
		return "generated"
	default:
		return "unknown"
	}
}

// ClassifySource determines the kind of a source-tree directory entry from
// its basename. Returns false for entries that are not part of the source
// tree: previously generated outputs (~ prefix) and dotfiles.
func ClassifySource(basename string) (Kind, bool) {
	if basename == "" {
		return Local, false
	}
	if strings.HasPrefix(basename, GeneratedPrefix) {
		// Engine output from a previous run, never a source file
		return Generated, false
	}
	if strings.HasPrefix(basename, ".") {
		return Local, false
	}
	if strings.HasPrefix(basename, InfrastructurePrefix) {
		return Infrastructure, true
	}
	return Local, true
}
