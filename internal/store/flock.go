package store

import (
	"fmt"
	"os"
	"syscall"
)

// migrationLock serializes schema migrations between mishap processes that
// open the same history file at once. It lives next to the database as
// <db>.migrate.lock.
type migrationLock struct {
	f *os.File
}

// acquireMigrationLock blocks until this process holds the lock for dbPath.
// The database directory already exists when InitDBWithPath calls it.
func acquireMigrationLock(dbPath string) (*migrationLock, error) {
	path := dbPath + ".migrate.lock"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // G304: derived from the resolved db path
	if err != nil {
		return nil, fmt.Errorf("open migration lock %s: %w", path, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("acquire migration lock %s: %w", path, err)
	}
	return &migrationLock{f: f}, nil
}

// Release unlocks and closes the lock file. Nil-safe.
func (l *migrationLock) Release() {
	if l == nil || l.f == nil {
		return
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	_ = l.f.Close()
	l.f = nil
}
