// Package report holds the run summary model: per-file changes,
// recoverable issues, and the emitters that render them for terminals
// (pterm) or machines (JSON lines).
//
// MalformedAnnotation and DanglingImport are deliberately values here, not
// Go errors: they are collected across the whole resolution pass and
// surfaced together, so a problem in one fixture never masks problems
// elsewhere. Fatal conditions stay in the errors package.
package report

import (
	"fmt"
	"time"
)

// Action classifies what the writer did (or would do) to one file.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSkip   Action = "skip"
)

// Change records one per-file action taken during a run.
type Change struct {
	Version string `json:"version"`
	Path    string `json:"path"`   // logical path
	File    string `json:"file"`   // version-relative on-disk name (~ prefix applied)
	Action  Action `json:"action"`
}

// IssueKind identifies a recoverable per-file problem.
type IssueKind string

const (
	// IssueMalformedAnnotation covers broken directives and references
	// that cannot be resolved to a declared name.
	IssueMalformedAnnotation IssueKind = "malformed-annotation"
	// IssueDanglingImport covers @import targets that do not exist in the
	// resolved tree of the version being generated.
	IssueDanglingImport IssueKind = "dangling-import"
)

// Issue is one reported problem: it never stops the run, but any issue
// makes the run exit nonzero (dry-run excepted).
type Issue struct {
	Kind      IssueKind `json:"kind"`
	Version   string    `json:"version"`
	Path      string    `json:"path"`
	Line      int       `json:"line,omitempty"`
	Directive string    `json:"directive,omitempty"`
	Detail    string    `json:"detail"`
}

// Location renders the issue position as version/path:line for terminal
// output.
func (i Issue) Location() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s/%s:%d", i.Version, i.Path, i.Line)
	}
	return fmt.Sprintf("%s/%s", i.Version, i.Path)
}

// MalformedAnnotation builds a malformed-annotation issue.
func MalformedAnnotation(version, path string, line int, directive, detail string) Issue {
	return Issue{
		Kind:      IssueMalformedAnnotation,
		Version:   version,
		Path:      path,
		Line:      line,
		Directive: directive,
		Detail:    detail,
	}
}

// DanglingImport builds a dangling-import issue.
func DanglingImport(version, path string, line int, target string) Issue {
	return Issue{
		Kind:      IssueDanglingImport,
		Version:   version,
		Path:      path,
		Line:      line,
		Directive: "@import",
		Detail:    fmt.Sprintf("import target %q not present in resolved tree", target),
	}
}

// Collector accumulates issues across a resolution pass. The engine is a
// single-threaded batch, so no locking is needed.
type Collector struct {
	issues []Issue
}

// NewCollector returns an empty issue collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records one issue.
func (c *Collector) Add(issue Issue) {
	c.issues = append(c.issues, issue)
}

// Issues returns all collected issues in report order.
func (c *Collector) Issues() []Issue {
	return c.issues
}

// HasIssues reports whether anything was collected.
func (c *Collector) HasIssues() bool {
	return len(c.issues) > 0
}

// Len returns the number of collected issues.
func (c *Collector) Len() int {
	return len(c.issues)
}

// Summary is the outcome of one sync/clean/status run.
type Summary struct {
	RunID      string    `json:"run_id"`
	DryRun     bool      `json:"dry_run"`
	Versions   []string  `json:"versions"`
	Started    time.Time `json:"started"`
	DurationMS int64     `json:"duration_ms"`
	Changes    []Change  `json:"changes"`
	Issues     []Issue   `json:"issues"`
}

// NewSummary starts a summary for the given run.
func NewSummary(runID string, versions []string, dryRun bool) *Summary {
	return &Summary{
		RunID:    runID,
		DryRun:   dryRun,
		Versions: versions,
		Started:  time.Now(),
	}
}

// Finish stamps the run duration.
func (s *Summary) Finish() {
	s.DurationMS = time.Since(s.Started).Milliseconds()
}

// Record appends a change.
func (s *Summary) Record(c Change) {
	s.Changes = append(s.Changes, c)
}

func (s *Summary) count(a Action) int {
	n := 0
	for _, c := range s.Changes {
		if c.Action == a {
			n++
		}
	}
	return n
}

// Created returns the number of created files.
func (s *Summary) Created() int { return s.count(ActionCreate) }

// Updated returns the number of updated files.
func (s *Summary) Updated() int { return s.count(ActionUpdate) }

// Deleted returns the number of deleted files.
func (s *Summary) Deleted() int { return s.count(ActionDelete) }

// Skipped returns the number of files left untouched because their content
// was already current.
func (s *Summary) Skipped() int { return s.count(ActionSkip) }

// HasIssues reports whether any recoverable issue was collected.
func (s *Summary) HasIssues() bool {
	return len(s.Issues) > 0
}
