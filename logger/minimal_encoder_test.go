package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// TestMinimalEncoderNeverDiscardsFields ensures the minimal encoder never
// silently drops log fields: every field must surface in some form.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "engine",
		Message:    "Testing field preservation",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string // What we must find in the output
	}{
		// Identity fields render bare (no key= prefix) but must be present
		{zap.String("version", "r02"), "r02"},
		{zap.String("run_id", "RN_x3fq9"), "RN_x3fq9"},
		{zap.String("path", "cart/get/ok.http"), "cart/get/ok.http"},

		// Arbitrary fields must render as key=value
		{zap.String("directive", "@import"), "directive=@import"},
		{zap.Int("line", 14), "line=14"},
		{zap.Bool("dry_run", true), "dry_run=true"},
		{zap.Float64("ratio", 0.8), "ratio=0.8"},
		{zap.Strings("tags", []string{"r02", "happy"}), "tags=[r02 happy]"},
		{zap.String("error", "dangling import"), "error=dangling import"},

		// nil error must not crash
		{zap.Error(nil), ""},

		// Duration fields get the ms suffix treatment
		{zap.Int64("duration_ms", 42), "42ms"},
	}

	var allFields []zapcore.Field
	for _, tf := range testFields {
		allFields = append(allFields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, allFields)
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}

	cleanOutput := stripANSI(buf.String())

	for _, tf := range testFields {
		if tf.mustFind != "" && !strings.Contains(cleanOutput, tf.mustFind) {
			t.Errorf("Field was silently discarded from log output: %s\nOutput: %s",
				tf.mustFind, cleanOutput)
		}
	}
}

// TestEncoderChangeCounts verifies the grouped "(N created, N deleted)" rendering
func TestEncoderChangeCounts(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "engine",
		Message:    "Sync completed",
	}

	fields := []zapcore.Field{
		zap.String("version", "r03"),
		zap.Int("created", 2),
		zap.Int("updated", 1),
		zap.Int("deleted", 3),
		zap.Int("skipped", 9),
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}

	cleanOutput := stripANSI(buf.String())

	want := "(2 created, 1 updated, 3 deleted, 9 skipped)"
	if !strings.Contains(cleanOutput, want) {
		t.Errorf("Expected grouped counts %q in output: %s", want, cleanOutput)
	}
	if !strings.Contains(cleanOutput, "r03") {
		t.Errorf("Expected version id in output: %s", cleanOutput)
	}
}

// TestEncoderLevelTags verifies WARN/ERROR entries carry a level tag and
// INFO entries do not
func TestEncoderLevelTags(t *testing.T) {
	encoder := newMinimalEncoder()

	tests := []struct {
		level    zapcore.Level
		wantTag  string
		wantFree string // Tag that must NOT appear
	}{
		{zapcore.InfoLevel, "", "WARN"},
		{zapcore.WarnLevel, "WARN", "ERROR"},
		{zapcore.ErrorLevel, "ERROR", "WARN"},
	}

	for _, tt := range tests {
		entry := zapcore.Entry{
			Level:   tt.level,
			Time:    time.Now(),
			Message: "lock file present",
		}

		buf, err := encoder.EncodeEntry(entry, nil)
		if err != nil {
			t.Fatalf("Failed to encode entry: %v", err)
		}

		cleanOutput := stripANSI(buf.String())
		if tt.wantTag != "" && !strings.Contains(cleanOutput, tt.wantTag) {
			t.Errorf("level %v: expected %q in output: %s", tt.level, tt.wantTag, cleanOutput)
		}
		if tt.wantFree != "" && strings.Contains(cleanOutput, tt.wantFree) {
			t.Errorf("level %v: did not expect %q in output: %s", tt.level, tt.wantFree, cleanOutput)
		}
	}
}

func TestAbbreviateName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"engine", "engine"},
		{"engine.writer", "e.writer"},
		{"resolve", "resolve"},
		{"chain.loader", "c.loader"},
	}

	for _, tt := range tests {
		if got := abbreviateName(tt.name); got != tt.want {
			t.Errorf("abbreviateName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSetTheme(t *testing.T) {
	orig := currentTheme
	defer SetTheme(orig)

	SetTheme("gruvbox")
	if currentTheme != "gruvbox" {
		t.Errorf("SetTheme(gruvbox) left theme %q", currentTheme)
	}

	SetTheme("everforest")
	if currentTheme != "everforest" {
		t.Errorf("SetTheme(everforest) left theme %q", currentTheme)
	}

	// Unknown themes are ignored
	SetTheme("solarized")
	if currentTheme != "everforest" {
		t.Errorf("SetTheme(solarized) should be ignored, got %q", currentTheme)
	}
}

func TestColorizeMessageBrackets(t *testing.T) {
	// Bracketed run ids and stage markers must survive colorization intact
	msg := "[run:RN_x3fq9] resolving [r02]"
	out := stripANSI(colorizeMessage(msg))
	if out != msg {
		t.Errorf("colorizeMessage altered text: got %q, want %q", out, msg)
	}
}
