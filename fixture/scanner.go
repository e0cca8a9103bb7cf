package fixture

import "strings"

// Directive names recognized by the scanner. Anything else after "# @" is
// some other tool's business and passes through untouched.
const (
	DirectiveName     = "@name"
	DirectiveRef      = "@ref"
	DirectiveForceRef = "@forceRef"
	DirectiveImport   = "@import"
	DirectiveTag      = "@tag"
)

// Ref is a name reference consumed by a fixture via @ref or @forceRef.
type Ref struct {
	Target string
	Force  bool
	Line   int
}

// Import is a relative file reference declared via @import.
type Import struct {
	Target string
	Line   int
}

// Annotations is the structural metadata extracted from one fixture file.
type Annotations struct {
	Names    []string // names exposed via @name, in declaration order
	Refs     []Ref    // names consumed via @ref / @forceRef
	Imports  []Import // file targets declared via @import
	Tags     []string // tags from the first @tag line, if any
	TagLines []int    // line numbers of every @tag line (for stripping)
}

// Problem records a malformed directive found while scanning. Problems are
// reported, not fatal: the rest of the file still resolves.
type Problem struct {
	Line      int
	Directive string
	Detail    string
}

// Scan extracts annotations from raw fixture text. The scanner is
// line-oriented: a directive is a column-0 "#" comment whose first word
// after the "#" starts with "@". Body content, assertions, and unknown
// directives are never interpreted.
//
// Line numbers are 1-based.
func Scan(content string) (Annotations, []Problem) {
	var ann Annotations
	var problems []Problem

	lines := strings.Split(content, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSuffix(raw, "\r")

		directive, arg, ok := splitDirective(line)
		if !ok {
			continue
		}

		switch directive {
		case DirectiveName:
			if name, problem := singleToken(lineNo, directive, arg, "name"); problem != nil {
				problems = append(problems, *problem)
			} else {
				ann.Names = append(ann.Names, name)
			}

		case DirectiveRef, DirectiveForceRef:
			if target, problem := singleToken(lineNo, directive, arg, "reference target"); problem != nil {
				problems = append(problems, *problem)
			} else {
				ann.Refs = append(ann.Refs, Ref{
					Target: target,
					Force:  directive == DirectiveForceRef,
					Line:   lineNo,
				})
			}

		case DirectiveImport:
			if arg == "" {
				problems = append(problems, Problem{
					Line:      lineNo,
					Directive: directive,
					Detail:    "missing import path",
				})
				continue
			}
			ann.Imports = append(ann.Imports, Import{Target: arg, Line: lineNo})

		case DirectiveTag:
			ann.TagLines = append(ann.TagLines, lineNo)
			if ann.Tags == nil {
				ann.Tags = parseTagList(arg)
			}
		}
	}

	return ann, problems
}

// splitDirective checks whether a line is a directive and splits it into
// the directive word and its raw argument. Only column-0 "#" comments
// qualify; indented comments are body content.
func splitDirective(line string) (directive, arg string, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return "", "", false
	}
	rest := strings.TrimSpace(line[1:])
	if !strings.HasPrefix(rest, "@") {
		return "", "", false
	}
	if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
		return rest[:idx], strings.TrimSpace(rest[idx+1:]), true
	}
	return rest, "", true
}

// singleToken validates a directive argument that must be exactly one word.
func singleToken(line int, directive, arg, what string) (string, *Problem) {
	fields := strings.Fields(arg)
	switch len(fields) {
	case 0:
		return "", &Problem{Line: line, Directive: directive, Detail: "missing " + what}
	case 1:
		return fields[0], nil
	default:
		return "", &Problem{Line: line, Directive: directive, Detail: what + " must be a single token"}
	}
}

// parseTagList splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func parseTagList(arg string) []string {
	parts := strings.Split(arg, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// TagLine renders the canonical tag line for a computed tag set:
// "# @tag a, b, c". Returns the empty string for an empty set.
func TagLine(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "# " + DirectiveTag + " " + strings.Join(tags, ", ")
}
