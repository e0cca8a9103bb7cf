package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCounts(t *testing.T) {
	s := NewSummary("RN_test", []string{"r01", "r02"}, false)
	s.Record(Change{Version: "r02", Path: "a.http", File: "~a.http", Action: ActionCreate})
	s.Record(Change{Version: "r02", Path: "b.http", File: "~b.http", Action: ActionCreate})
	s.Record(Change{Version: "r02", Path: "c.http", File: "~c.http", Action: ActionUpdate})
	s.Record(Change{Version: "r02", Path: "d.http", File: "~d.http", Action: ActionDelete})
	s.Record(Change{Version: "r02", Path: "e.http", File: "~e.http", Action: ActionSkip})

	assert.Equal(t, 2, s.Created())
	assert.Equal(t, 1, s.Updated())
	assert.Equal(t, 1, s.Deleted())
	assert.Equal(t, 1, s.Skipped())
	assert.False(t, s.HasIssues())

	s.Finish()
	assert.GreaterOrEqual(t, s.DurationMS, int64(0))
}

func TestIssueLocation(t *testing.T) {
	i := MalformedAnnotation("r01", "cart/happy.http", 3, "@ref", "missing reference target")
	assert.Equal(t, "r01/cart/happy.http:3", i.Location())
	assert.Equal(t, IssueMalformedAnnotation, i.Kind)

	noLine := Issue{Kind: IssueDanglingImport, Version: "r02", Path: "b.http"}
	assert.Equal(t, "r02/b.http", noLine.Location())
}

func TestDanglingImportDetail(t *testing.T) {
	i := DanglingImport("r02", "b.http", 4, "./gone.http")
	assert.Equal(t, IssueDanglingImport, i.Kind)
	assert.Equal(t, "@import", i.Directive)
	assert.Contains(t, i.Detail, `"./gone.http"`)
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasIssues())
	assert.Equal(t, 0, c.Len())

	c.Add(MalformedAnnotation("r01", "a.http", 1, "@name", "missing name"))
	c.Add(DanglingImport("r01", "a.http", 2, "./x.http"))

	assert.True(t, c.HasIssues())
	require.Equal(t, 2, c.Len())
	assert.Equal(t, IssueMalformedAnnotation, c.Issues()[0].Kind)
	assert.Equal(t, IssueDanglingImport, c.Issues()[1].Kind)
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.True(t, strings.HasPrefix(a, "RN_"))
	assert.Greater(t, len(a), len("RN_"))
	assert.NotEqual(t, a, b)
}

func TestJSONEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONEmitterTo(&buf)

	e.EmitChange(Change{Version: "r02", Path: "a.http", File: "~a.http", Action: ActionCreate}, true)
	e.EmitIssue(DanglingImport("r02", "b.http", 4, "./gone.http"))

	s := NewSummary("RN_x", []string{"r02"}, true)
	s.Record(Change{Version: "r02", Path: "a.http", File: "~a.http", Action: ActionCreate})
	s.Finish()
	e.EmitSummary(s)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var change Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &change))
	assert.Equal(t, "change", change.Type)
	assert.Equal(t, "create", change.Data["action"])
	assert.Equal(t, true, change.Data["dry_run"])

	var issue Event
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &issue))
	assert.Equal(t, "issue", issue.Type)
	assert.Equal(t, "dangling-import", issue.Data["kind"])

	var summary Event
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &summary))
	assert.Equal(t, "summary", summary.Type)
	assert.Equal(t, "RN_x", summary.Data["run_id"])
	assert.Equal(t, float64(1), summary.Data["created"])
}
