package indexer

import "sync/atomic"

// BuildLock provides non-blocking lock semantics using atomic operations.
// A rebuild attempted while another is running fails fast instead of
// queueing behind it.
type BuildLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired, false otherwise.
func (l *BuildLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that successfully acquired the lock.
func (l *BuildLock) Release() {
	l.state.Store(0)
}
