package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_AllDirectives(t *testing.T) {
	content := `# @name checkout_happy
# @tag r01, happy
# @import ./login.http
# @ref login
# @forceRef session
POST /cart/checkout
Content-Type: application/json

{"items": [1, 2]}
`
	ann, problems := Scan(content)
	require.Empty(t, problems)

	assert.Equal(t, []string{"checkout_happy"}, ann.Names)
	assert.Equal(t, []string{"r01", "happy"}, ann.Tags)
	assert.Equal(t, []int{2}, ann.TagLines)

	require.Len(t, ann.Imports, 1)
	assert.Equal(t, "./login.http", ann.Imports[0].Target)
	assert.Equal(t, 3, ann.Imports[0].Line)

	require.Len(t, ann.Refs, 2)
	assert.Equal(t, Ref{Target: "login", Force: false, Line: 4}, ann.Refs[0])
	assert.Equal(t, Ref{Target: "session", Force: true, Line: 5}, ann.Refs[1])
}

func TestScan_BodyContentUntouched(t *testing.T) {
	// Indented comments, body text that looks like directives, and unknown
	// directives must all pass through without being interpreted.
	content := `# @name a
  # @ref indented_is_body
POST /x
# @no-log
{"note": "# @ref inside_json"}
`
	ann, problems := Scan(content)
	require.Empty(t, problems)
	assert.Equal(t, []string{"a"}, ann.Names)
	assert.Empty(t, ann.Refs)
}

func TestScan_MalformedDirectives(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		directive string
		detail    string
	}{
		{"name missing arg", "# @name\n", DirectiveName, "missing name"},
		{"name multi token", "# @name two words\n", DirectiveName, "name must be a single token"},
		{"ref missing arg", "# @ref\n", DirectiveRef, "missing reference target"},
		{"forceRef multi token", "# @forceRef a b\n", DirectiveForceRef, "reference target must be a single token"},
		{"import missing arg", "# @import\n", DirectiveImport, "missing import path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, problems := Scan(tt.content)
			require.Len(t, problems, 1)
			assert.Equal(t, 1, problems[0].Line)
			assert.Equal(t, tt.directive, problems[0].Directive)
			assert.Equal(t, tt.detail, problems[0].Detail)
		})
	}
}

func TestScan_ProblemsDoNotMaskOtherDirectives(t *testing.T) {
	content := "# @ref\n# @name good\n"
	ann, problems := Scan(content)

	require.Len(t, problems, 1)
	assert.Equal(t, []string{"good"}, ann.Names)
}

func TestScan_MultipleTagLines(t *testing.T) {
	// Only the first tag line contributes tags; every tag line is recorded
	// so rendering can strip stale ones.
	content := "# @tag a, b\nGET /x\n# @tag c\n"
	ann, problems := Scan(content)

	require.Empty(t, problems)
	assert.Equal(t, []string{"a", "b"}, ann.Tags)
	assert.Equal(t, []int{1, 3}, ann.TagLines)
}

func TestScan_TagListWhitespace(t *testing.T) {
	ann, _ := Scan("# @tag  r01 ,,  happy ,\n")
	assert.Equal(t, []string{"r01", "happy"}, ann.Tags)
}

func TestScan_CRLF(t *testing.T) {
	ann, problems := Scan("# @name a\r\n# @tag x\r\nGET /\r\n")
	require.Empty(t, problems)
	assert.Equal(t, []string{"a"}, ann.Names)
	assert.Equal(t, []string{"x"}, ann.Tags)
}

func TestScan_NoSpaceAfterHash(t *testing.T) {
	// Lenient parse: "#@name" is accepted even though the canonical form
	// has a space.
	ann, problems := Scan("#@name a\n")
	require.Empty(t, problems)
	assert.Equal(t, []string{"a"}, ann.Names)
}

func TestScan_EmptyContent(t *testing.T) {
	ann, problems := Scan("")
	assert.Empty(t, problems)
	assert.Empty(t, ann.Names)
	assert.Empty(t, ann.Refs)
	assert.Empty(t, ann.Imports)
	assert.Nil(t, ann.Tags)
}

func TestTagLine(t *testing.T) {
	assert.Equal(t, "# @tag r01, v1, happy", TagLine([]string{"r01", "v1", "happy"}))
	assert.Equal(t, "# @tag solo", TagLine([]string{"solo"}))
	assert.Equal(t, "", TagLine(nil))
}
