package store

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked means another run holds the tracking store.
var ErrLocked = errors.New("tracking store is locked by another run")

// Lock takes the advisory lock for this store. The lock is a sibling
// file created exclusively; a crash can leave it behind, in which case
// the operator removes it by hand after checking no run is alive.
func (s *Store) Lock() error {
	f, err := os.OpenFile(s.lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w (remove %s if no other run is active)", ErrLocked, s.lockPath)
		}
		return fmt.Errorf("creating lock file: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return f.Close()
}

func (s *Store) Unlock() error {
	if err := os.Remove(s.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}
