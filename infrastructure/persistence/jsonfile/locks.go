package jsonfile

import (
	"path/filepath"
	"sync"
)

var (
	pathLocks   = make(map[string]*sync.Mutex)
	pathLocksMu sync.Mutex
)

// lockFor returns the process-wide mutex guarding path. Every Store opened on
// the same file shares one lock.
func lockFor(path string) *sync.Mutex {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	key = filepath.Clean(key)

	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()

	mu, ok := pathLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		pathLocks[key] = mu
	}
	return mu
}
