package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: run summary, issues, errors with hints
//	1 (-v)      - + Per-file change lines, progress, manifest load info
//	2 (-vv)     - + Tree resolution detail: shadows, exclusions, rule matches, timing
//	3 (-vvv)    - + Scanner/rewriter per-line detail, watch events, lock activity

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputSummary OutputCategory = iota // Final run summary with counts
	OutputIssues                        // Malformed annotations, dangling imports
	OutputErrors                        // Fatal errors with hints

	// Level 1 (-v) - Informational
	OutputChanges  // Per-file create/update/delete/skip lines
	OutputProgress // Per-version progress
	OutputStartup  // Config and manifest load summaries

	// Level 2 (-vv) - Detailed
	OutputRejections // Shadowed and excluded path diagnostics
	OutputRuleMatch  // Tag rule pattern matches per path
	OutputTiming     // Operation timing

	// Level 3 (-vvv) - Trace
	OutputScanDetail  // Per-directive scanner results
	OutputWatchEvents // Raw fsnotify events
	OutputLockDetail  // Lock acquire/release/stale probes
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputSummary: VerbosityUser,
	OutputIssues:  VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputChanges:  VerbosityInfo,
	OutputProgress: VerbosityInfo,
	OutputStartup:  VerbosityInfo,

	OutputRejections: VerbosityDebug,
	OutputRuleMatch:  VerbosityDebug,
	OutputTiming:     VerbosityDebug,

	OutputScanDetail:  VerbosityTrace,
	OutputWatchEvents: VerbosityTrace,
	OutputLockDetail:  VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputSummary:     "summary",
	OutputIssues:      "issues",
	OutputErrors:      "errors",
	OutputChanges:     "changes",
	OutputProgress:    "progress",
	OutputStartup:     "startup",
	OutputRejections:  "rejections",
	OutputRuleMatch:   "rule-match",
	OutputTiming:      "timing",
	OutputScanDetail:  "scan-detail",
	OutputWatchEvents: "watch-events",
	OutputLockDetail:  "lock-detail",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "summary and errors only"
	case VerbosityInfo:
		return "above + per-file changes and progress"
	case VerbosityDebug:
		return "above + shadows, exclusions, rule matches, timing"
	case VerbosityTrace:
		return "above + scanner, watch, and lock detail"
	default:
		if verbosity > VerbosityTrace {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
