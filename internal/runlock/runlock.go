// Package runlock keeps two scans from writing into the same target directory
// at once. Locks are advisory flock files kept outside the target so they
// never show up among the deduplicated records.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds the lock for a target.
var ErrLocked = errors.New("target directory is in use by another fpdedup run")

// Lock is a held lock for one target directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for target inside lockDir.
func PathFor(lockDir, target string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(target)))
	return filepath.Join(lockDir, "target-"+hex.EncodeToString(sum[:8])+".lock")
}

// Acquire takes the lock for target without blocking. It returns ErrLocked
// when another holder exists.
func Acquire(lockDir, target string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory %q: %w", lockDir, err)
	}
	path := PathFor(lockDir, target)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s; lock %s)", ErrLocked, target, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks and closes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	err := l.lock.Unlock()
	l.lock = nil
	return err
}
