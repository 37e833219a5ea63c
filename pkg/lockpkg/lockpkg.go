// Package lockpkg provides per-key mutual exclusion.
//
// The transaction service holds an account's lock for the whole
// read-check-write sequence so that concurrent balance mutations on the
// same account are serialized.
package lockpkg

import "sync"

// KeyedMutex maintains one mutex per key.
//
// Mutexes are created lazily and never removed; the key space is the set
// of account ids, which grows slowly enough that cleanup is not needed.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int32]*sync.Mutex
}

// NewKeyedMutex returns an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[int32]*sync.Mutex),
	}
}

func (k *KeyedMutex) get(key int32) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}

	return l
}

// Lock acquires the mutex for the given key.
func (k *KeyedMutex) Lock(key int32) {
	k.get(key).Lock()
}

// Unlock releases the mutex for the given key.
func (k *KeyedMutex) Unlock(key int32) {
	k.get(key).Unlock()
}
