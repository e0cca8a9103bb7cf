package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/ucspec/ucsync/logger"
)

// Emitter receives run events as they happen plus the final summary.
//
// Implementations:
//   - CLIEmitter: pretty terminal output using pterm
//   - JSONEmitter: one JSON document per event for machine consumption
type Emitter interface {
	// EmitChange announces one per-file action.
	EmitChange(c Change, dryRun bool)

	// EmitIssue announces one recoverable problem as it is found.
	EmitIssue(i Issue)

	// EmitSummary renders the final run summary.
	EmitSummary(s *Summary)

	// EmitInfo prints an informational message.
	EmitInfo(message string)

	// EmitError prints a stage-level error.
	EmitError(stage string, err error)
}

// CLIEmitter outputs pretty-printed progress to the terminal using pterm.
type CLIEmitter struct {
	verbosity int
}

// NewCLIEmitter creates a CLI emitter for terminal output.
func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

// EmitChange prints one per-file change line. Create/update/delete lines
// show at -v; skip lines only at -vv, where idempotence is being watched.
func (e *CLIEmitter) EmitChange(c Change, dryRun bool) {
	if !logger.ShouldOutput(e.verbosity, logger.OutputChanges) {
		return
	}
	if c.Action == ActionSkip && e.verbosity < logger.VerbosityDebug {
		return
	}

	verb := string(c.Action)
	if dryRun {
		verb = "would-" + verb
	}

	var marker string
	switch c.Action {
	case ActionCreate:
		marker = pterm.Green("+ " + verb)
	case ActionUpdate:
		marker = pterm.Yellow("~ " + verb)
	case ActionDelete:
		marker = pterm.Red("- " + verb)
	default:
		marker = pterm.Gray("= " + verb)
	}

	pterm.Printf("%s  %s  %s\n", marker, pterm.LightCyan(c.Version), c.File)
}

// EmitIssue prints one issue with its file:line location.
func (e *CLIEmitter) EmitIssue(i Issue) {
	pterm.Printf("%s  %s  %s\n", pterm.Yellow(string(i.Kind)), i.Location(), i.Detail)
}

// EmitSummary prints the run footer: counts, duration, and the issue list.
func (e *CLIEmitter) EmitSummary(s *Summary) {
	counts := fmt.Sprintf("%d created, %d updated, %d deleted, %d skipped",
		s.Created(), s.Updated(), s.Deleted(), s.Skipped())

	switch {
	case s.DryRun:
		pterm.Info.Printf("Dry run (%d versions): %s would be applied [%s, %dms]\n",
			len(s.Versions), counts, s.RunID, s.DurationMS)
	case s.HasIssues():
		pterm.Warning.Printf("Sync finished with %d issue(s): %s [%s, %dms]\n",
			len(s.Issues), counts, s.RunID, s.DurationMS)
	default:
		pterm.Success.Printf("Sync complete: %s [%s, %dms]\n", counts, s.RunID, s.DurationMS)
	}

	if s.HasIssues() {
		pterm.Println()
		for _, i := range s.Issues {
			e.EmitIssue(i)
		}
	}
}

// EmitInfo prints an informational message at -v.
func (e *CLIEmitter) EmitInfo(message string) {
	if logger.ShouldOutput(e.verbosity, logger.OutputStartup) {
		pterm.Info.Println(message)
	}
}

// EmitError prints a stage-level error.
func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.Printf("Error in %s: %v\n", stage, err)
}

// NopEmitter discards all events. Commands that render the summary
// themselves use it to keep the engine quiet.
type NopEmitter struct{}

func (NopEmitter) EmitChange(Change, bool) {}
func (NopEmitter) EmitIssue(Issue)         {}
func (NopEmitter) EmitSummary(*Summary)    {}
func (NopEmitter) EmitInfo(string)         {}
func (NopEmitter) EmitError(string, error) {}

// Event is the envelope for one JSON-emitted run event.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// JSONEmitter outputs structured JSON events, one document per line.
type JSONEmitter struct {
	encoder *json.Encoder
}

// NewJSONEmitter creates a JSON emitter writing to stdout.
func NewJSONEmitter() *JSONEmitter {
	return NewJSONEmitterTo(os.Stdout)
}

// NewJSONEmitterTo creates a JSON emitter writing to w.
func NewJSONEmitterTo(w io.Writer) *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(w)}
}

// EmitChange emits a change event.
func (e *JSONEmitter) EmitChange(c Change, dryRun bool) {
	e.encoder.Encode(Event{
		Type:      "change",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"version": c.Version,
			"path":    c.Path,
			"file":    c.File,
			"action":  c.Action,
			"dry_run": dryRun,
		},
	})
}

// EmitIssue emits an issue event.
func (e *JSONEmitter) EmitIssue(i Issue) {
	e.encoder.Encode(Event{
		Type:      "issue",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"kind":      i.Kind,
			"version":   i.Version,
			"path":      i.Path,
			"line":      i.Line,
			"directive": i.Directive,
			"detail":    i.Detail,
		},
	})
}

// EmitSummary emits the final summary event.
func (e *JSONEmitter) EmitSummary(s *Summary) {
	e.encoder.Encode(Event{
		Type:      "summary",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"run_id":      s.RunID,
			"dry_run":     s.DryRun,
			"versions":    s.Versions,
			"duration_ms": s.DurationMS,
			"created":     s.Created(),
			"updated":     s.Updated(),
			"deleted":     s.Deleted(),
			"skipped":     s.Skipped(),
			"issues":      s.Issues,
		},
	})
}

// EmitInfo emits an info event.
func (e *JSONEmitter) EmitInfo(message string) {
	e.encoder.Encode(Event{
		Type:      "info",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": message,
		},
	})
}

// EmitError emits an error event.
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.encoder.Encode(Event{
		Type:      "error",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"stage": stage,
			"error": err.Error(),
		},
	})
}
