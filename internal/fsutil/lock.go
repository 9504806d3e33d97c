package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// LockFileName is the lock file kept in a work directory while an upgrade runs.
const LockFileName = ".rancher-client.lock"

var (
	flock    = unix.Flock
	lockWait = 30 * time.Second
	lockPoll = 100 * time.Millisecond
)

// LockBusyError reports a work directory that another run still held when
// the wait ran out. Holder is the PID recorded in the lock file, if any.
type LockBusyError struct {
	Path   string
	Waited time.Duration
	Holder string
}

func (e *LockBusyError) Error() string {
	holder := e.Holder
	if holder == "" {
		holder = "unknown"
	}
	return fmt.Sprintf(messages.FsutilLockBusyFmt, filepath.Dir(e.Path), holder, e.Waited)
}

// WithWorkDirLock creates dir when missing and runs fn while holding an
// exclusive flock on dir's lock file, so two upgrades never rewrite the same
// compose file at once. Waiting on a busy lock ends after lockWait or when
// ctx is done.
func WithWorkDirLock(ctx context.Context, dir string, fn func() error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.FsutilWorkDirFmt, dir, err)
	}
	path := filepath.Join(dir, LockFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf(messages.FsutilOpenLockFmt, path, err)
	}
	defer func() { _ = file.Close() }()

	if err := waitForLock(ctx, file); err != nil {
		return err
	}
	defer func() { _ = flock(int(file.Fd()), unix.LOCK_UN) }()

	// The PID only feeds LockBusyError for the next waiter.
	if err := file.Truncate(0); err == nil {
		_, _ = file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return fn()
}

func waitForLock(ctx context.Context, file *os.File) error {
	timeout := time.NewTimer(lockWait)
	defer timeout.Stop()
	poll := time.NewTicker(lockPoll)
	defer poll.Stop()

	for {
		err := flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return fmt.Errorf(messages.FsutilLockFmt, file.Name(), err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return &LockBusyError{Path: file.Name(), Waited: lockWait, Holder: lockHolder(file.Name())}
		case <-poll.C:
		}
	}
}

func lockHolder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
