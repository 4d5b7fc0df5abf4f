package services

import (
	"context"
	"sync"
)

// Locker serializes mutations per identity. Different identities proceed in
// parallel; waiters on the same identity block until the holder releases or
// their context expires. An entry is dropped once nobody references it.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*identityLock
}

type identityLock struct {
	ch   chan struct{}
	refs int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*identityLock)}
}

// Acquire blocks until the identity lock is held or ctx is done. On ctx
// expiry no state has changed and the caller gets a retryable error.
func (l *Locker) Acquire(ctx context.Context, identity string) error {
	l.mu.Lock()
	entry, ok := l.locks[identity]
	if !ok {
		entry = &identityLock{ch: make(chan struct{}, 1)}
		l.locks[identity] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(identity, entry)
		return ErrLockTimeout
	}
}

// Release frees the identity lock. Must pair with a successful Acquire.
func (l *Locker) Release(identity string) {
	l.mu.Lock()
	entry, ok := l.locks[identity]
	l.mu.Unlock()
	if !ok {
		return
	}
	<-entry.ch
	l.unref(identity, entry)
}

func (l *Locker) unref(identity string, entry *identityLock) {
	l.mu.Lock()
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, identity)
	}
	l.mu.Unlock()
}
