package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf("error: %s %d", "test", 42)
	require.NotNil(t, err)
	assert.Equal(t, "error: test 42", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestIs(t *testing.T) {
	err1 := New("error 1")
	err2 := New("error 2")
	wrapped := Wrap(err1, "wrapped")

	assert.True(t, Is(wrapped, err1))
	assert.False(t, Is(wrapped, err2))
	assert.False(t, Is(nil, err1))
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "custom"}
	wrapped := Wrap(original, "wrapped")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "custom", target.msg)
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	// Format with stack trace
	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestSentinelWrapping(t *testing.T) {
	err := Wrap(ErrSyncInProgress, "specs/.ucsync.lock held by pid 4242")

	assert.True(t, IsSyncInProgress(err))
	assert.False(t, IsInvalidManifest(err))
	assert.Contains(t, err.Error(), "pid 4242")
}

func TestIsSyncInProgress(t *testing.T) {
	assert.False(t, IsSyncInProgress(nil))
	assert.False(t, IsSyncInProgress(New("unrelated")))
	assert.True(t, IsSyncInProgress(ErrSyncInProgress))
	assert.True(t, IsSyncInProgress(Wrapf(ErrSyncInProgress, "version %s", "r02")))
}

func TestNewInvalidManifestError(t *testing.T) {
	err := NewInvalidManifestError("version %q inherits undeclared %q", "r02", "r09")

	assert.True(t, IsInvalidManifest(err))
	assert.Contains(t, err.Error(), `version "r02" inherits undeclared "r09"`)
}

func TestNewUnknownVersionError(t *testing.T) {
	err := NewUnknownVersionError("r77")

	assert.True(t, IsUnknownVersion(err))
	assert.Contains(t, err.Error(), "r77")
}

func TestIssuesReportedDistinct(t *testing.T) {
	// ErrIssuesReported must not satisfy the fatal-error predicates; it only
	// drives exit codes after a completed run.
	assert.False(t, IsInvalidManifest(ErrIssuesReported))
	assert.False(t, IsSyncInProgress(ErrIssuesReported))
	assert.False(t, IsUnknownVersion(ErrIssuesReported))
}

func ExampleNew() {
	err := New("something went wrong")
	fmt.Println(err)
	// Output: something went wrong
}

func ExampleWrap() {
	baseErr := New("cycle detected")
	err := Wrap(baseErr, "failed to load manifest")
	fmt.Println(err)
	// Output: failed to load manifest: cycle detected
}
