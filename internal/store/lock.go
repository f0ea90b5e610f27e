package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var ErrLocked = errors.New("database is locked")

// LockError reports a lock file held by another process (or left behind by a crashed one).
type LockError struct {
	Path   string
	Holder string
}

func (e *LockError) Error() string {
	holder := e.Holder
	if holder == "" {
		holder = "unknown holder"
	}
	return fmt.Sprintf("%s exists (held by %s); remove it if no other instance is running", e.Path, holder)
}

func (e *LockError) Is(target error) bool { return target == ErrLocked }

// Lock is a <path>.lock file created with exclusive-create semantics.
type Lock struct {
	path string
}

func LockPath(dbPath string) string { return dbPath + ".lock" }

// AcquireLock creates the lock file for dbPath and writes "hostname::pid" into it.
func AcquireLock(dbPath string) (*Lock, error) {
	p := LockPath(dbPath)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			holder, _ := os.ReadFile(p)
			return nil, &LockError{Path: p, Holder: strings.TrimSpace(string(holder))}
		}
		return nil, err
	}
	host, _ := os.Hostname()
	if _, err := fmt.Fprintf(f, "%s::%d", host, os.Getpid()); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return nil, err
	}
	return &Lock{path: p}, nil
}

func (l *Lock) Path() string { return l.path }

// Release removes the lock file. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
