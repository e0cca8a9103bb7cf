package engine

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucspec/ucsync/errors"
)

func lockAt(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".ucsync.lock")
}

func plantLock(t *testing.T, path string, info lockInfo) {
	t.Helper()
	data, err := json.Marshal(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestLock_AcquireAndRelease(t *testing.T) {
	path := lockAt(t)

	lock, err := AcquireLock(path, "RN_one", true)
	require.NoError(t, err)
	assert.FileExists(t, path)

	require.NoError(t, lock.Release())
	assert.NoFileExists(t, path)
}

func TestLock_HeldByLiveProcess(t *testing.T) {
	path := lockAt(t)

	first, err := AcquireLock(path, "RN_one", true)
	require.NoError(t, err)
	defer first.Release()

	// The holder is this very much alive process, so even with stale
	// breaking enabled the second acquire fails fast.
	_, err = AcquireLock(path, "RN_two", true)
	require.Error(t, err)
	assert.True(t, errors.IsSyncInProgress(err))
	assert.Contains(t, err.Error(), "RN_one", "holder details surface in the error")
	assert.FileExists(t, path)
}

func TestLock_BreaksStaleLock(t *testing.T) {
	path := lockAt(t)
	plantLock(t, path, lockInfo{
		PID:       math.MaxInt32, // beyond pid_max, cannot be alive
		Owner:     "gone",
		Host:      hostname(),
		RunID:     "RN_dead",
		StartedAt: time.Now().Add(-time.Hour),
	})

	lock, err := AcquireLock(path, "RN_new", true)
	require.NoError(t, err, "dead holder on this host is stale")
	require.NoError(t, lock.Release())
}

func TestLock_StaleKeptWhenBreakingDisabled(t *testing.T) {
	path := lockAt(t)
	plantLock(t, path, lockInfo{
		PID:       math.MaxInt32,
		Owner:     "gone",
		Host:      hostname(),
		RunID:     "RN_dead",
		StartedAt: time.Now().Add(-time.Hour),
	})

	_, err := AcquireLock(path, "RN_new", false)
	require.Error(t, err)
	assert.True(t, errors.IsSyncInProgress(err))
	assert.FileExists(t, path)
}

func TestLock_ForeignHostNeverStale(t *testing.T) {
	path := lockAt(t)
	plantLock(t, path, lockInfo{
		PID:       math.MaxInt32,
		Owner:     "remote",
		Host:      "some-other-host",
		RunID:     "RN_remote",
		StartedAt: time.Now().Add(-time.Hour),
	})

	// A holder on another host cannot be probed, so it is never broken.
	_, err := AcquireLock(path, "RN_new", true)
	require.Error(t, err)
	assert.True(t, errors.IsSyncInProgress(err))
	assert.FileExists(t, path)
}

func TestLock_UnreadableLockNotBroken(t *testing.T) {
	path := lockAt(t)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := AcquireLock(path, "RN_new", true)
	require.Error(t, err)
	assert.True(t, errors.IsSyncInProgress(err))
	assert.Contains(t, err.Error(), "unreadable")
	assert.FileExists(t, path)
}

func TestLock_ReleaseLeavesForeignLock(t *testing.T) {
	path := lockAt(t)

	lock, err := AcquireLock(path, "RN_one", true)
	require.NoError(t, err)

	// Simulate the lock being broken and re-acquired by someone else
	// while we still hold our handle.
	plantLock(t, path, lockInfo{PID: os.Getpid(), Owner: "someone-else", Host: hostname(), RunID: "RN_two", StartedAt: time.Now()})

	require.NoError(t, lock.Release())
	assert.FileExists(t, path, "a lock owned by another invocation is left alone")
}

func TestLock_ReleaseTwiceIsFine(t *testing.T) {
	path := lockAt(t)

	lock, err := AcquireLock(path, "RN_one", true)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release())
}
