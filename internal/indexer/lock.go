package indexer

import "sync"

// IndexLock provides non-blocking, per-project lock semantics so a project is
// never indexed twice at once while different projects may proceed.
type IndexLock struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// TryAcquire attempts to lock key without blocking.
// Returns true if the lock was acquired, false if key is already held.
func (l *IndexLock) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active == nil {
		l.active = make(map[string]struct{})
	}
	if _, held := l.active[key]; held {
		return false
	}
	l.active[key] = struct{}{}
	return true
}

// Release unlocks key.
// Must only be called by the goroutine that successfully acquired it.
func (l *IndexLock) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, key)
}

// Held reports whether key is currently locked
func (l *IndexLock) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, held := l.active[key]
	return held
}
