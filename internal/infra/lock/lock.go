// Package lock guards a destination directory against concurrent organizer
// runs with an advisory flock, so conflict renaming stays race-free across
// processes.
package lock

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// FlockLocker acquires non-blocking exclusive locks on a lock file path.
type FlockLocker struct{}

// Acquire tries to take the lock at path without blocking. On success the
// lock file carries the run ID and pid of the holder, and the returned
// release function unlocks and removes it.
func (FlockLocker) Acquire(path, runID string) (func(), error) {
	fl := flock.New(path)
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !acquired {
		return nil, fmt.Errorf("lock %s: held by another process", path)
	}

	// Best effort; the flock itself is what matters.
	_ = os.WriteFile(path, []byte(fmt.Sprintf("run=%s pid=%d\n", runID, os.Getpid())), 0o644)

	release := func() {
		_ = fl.Unlock()
		_ = os.Remove(path)
	}
	return release, nil
}
