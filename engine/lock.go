package engine

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/ucspec/ucsync/conf"
	"github.com/ucspec/ucsync/errors"
	"github.com/ucspec/ucsync/logger"
)

// lockInfo is the JSON body of the lock file. It lets a competing
// invocation tell the user who holds the lock, and lets a lock left behind
// by a crashed process be recognized as stale and broken.
type lockInfo struct {
	PID       int       `json:"pid"`
	Owner     string    `json:"owner"`
	Host      string    `json:"host"`
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
}

// Lock is a held advisory lock guarding a spec root's write pass.
type Lock struct {
	path  string
	owner string
	log   *zap.SugaredLogger
}

// AcquireLock takes the advisory lock at path, failing fast when another
// sync holds it. Creation is atomic (O_EXCL), so two concurrent
// invocations cannot both win.
//
// When breakStale is set and the current holder's process is dead, the
// lock is removed and acquisition retried once. A holder on another host
// cannot be probed and is never considered stale.
func AcquireLock(path, runID string, breakStale bool) (*Lock, error) {
	log := logger.ComponentLogger("lock")
	owner := uuid.NewString()

	for attempt := 0; ; attempt++ {
		err := writeLockFile(path, owner, runID)
		if err == nil {
			log.Debugw("Lock acquired", logger.FieldPath, path, logger.FieldRunID, runID)
			return &Lock{path: path, owner: owner, log: log}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrapf(err, "failed to create lock file %s", path)
		}

		holder := readLockFile(path)
		if attempt == 0 && breakStale && isStale(holder) {
			log.Warnw("Breaking stale lock",
				logger.FieldPath, path,
				"holder_pid", holder.PID,
				"holder_run", holder.RunID)
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				return nil, errors.Wrapf(rmErr, "failed to remove stale lock %s", path)
			}
			continue
		}

		if holder == nil {
			return nil, errors.Wrapf(errors.ErrSyncInProgress, "lock file %s exists but is unreadable", path)
		}
		return nil, errors.Wrapf(errors.ErrSyncInProgress,
			"held by pid %d on %s since %s (run %s)",
			holder.PID, holder.Host, holder.StartedAt.Format(time.RFC3339), holder.RunID)
	}
}

// Release removes the lock if this invocation still owns it. A lock that
// was broken and re-acquired by someone else is left alone.
func (l *Lock) Release() error {
	holder := readLockFile(l.path)
	if holder == nil {
		return nil
	}
	if holder.Owner != l.owner {
		l.log.Warnw("Lock changed owner before release, leaving it",
			logger.FieldPath, l.path, "holder_pid", holder.PID)
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove lock file %s", l.path)
	}
	l.log.Debugw("Lock released", logger.FieldPath, l.path)
	return nil
}

func writeLockFile(path, owner, runID string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, conf.DefaultFilePermissions)
	if err != nil {
		return err
	}
	info := lockInfo{
		PID:       os.Getpid(),
		Owner:     owner,
		Host:      hostname(),
		RunID:     runID,
		StartedAt: time.Now(),
	}
	if err := json.NewEncoder(f).Encode(info); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// readLockFile returns the holder info, or nil when the file is missing or
// not yet fully written.
func readLockFile(path string) *lockInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var info lockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil
	}
	return &info
}

// isStale reports whether the holding process is provably dead. Staleness
// requires a parseable lock on this host whose PID no longer exists;
// anything less keeps the lock.
func isStale(holder *lockInfo) bool {
	if holder == nil {
		return false
	}
	if holder.Host != hostname() {
		return false
	}
	alive, err := process.PidExists(int32(holder.PID))
	if err != nil {
		return false
	}
	return !alive
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
