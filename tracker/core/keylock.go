package core

import "sync"

// KeyedMutex serializes read-then-append sequences per student so that two
// concurrent scans of the same card cannot both pass the duplicate check.
// The database's composite unique index remains the hard backstop; this
// keeps the common case from ever hitting it.
//
// Mutexes are retained for the life of the process; one per student that
// scanned since startup, which is bounded by the school roster.
type KeyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

func (k *KeyedMutex) Lock(key string) (unlock func()) {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
