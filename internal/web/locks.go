package web

import "sync"

// keyedLocks serializes requests that touch the same quiz session. Entries
// are dropped once nobody holds or waits on them.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks { return &keyedLocks{m: map[string]*lockEntry{}} }

func (k *keyedLocks) ref(id string) *lockEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.m[id]
	if !ok {
		e = &lockEntry{}
		k.m[id] = e
	}
	e.refs++
	return e
}

func (k *keyedLocks) unref(id string, e *lockEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.m, id)
	}
}

// Lock blocks until the session is free.
func (k *keyedLocks) Lock(id string) (unlock func()) {
	e := k.ref(id)
	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.unref(id, e)
	}
}

// TryLock reports false without waiting when another request holds the
// session.
func (k *keyedLocks) TryLock(id string) (unlock func(), ok bool) {
	e := k.ref(id)
	if !e.mu.TryLock() {
		k.unref(id, e)
		return nil, false
	}
	return func() {
		e.mu.Unlock()
		k.unref(id, e)
	}, true
}
