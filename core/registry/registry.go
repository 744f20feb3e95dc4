package registry

import "sync"

// Registry is a process-global key-value store with per-key locking. Extension
// points (cmd, cron) append to a key during init() and lock it on Apply, after
// which registration panics.
type Registry struct {
	m      sync.Map
	locked sync.Map // key -> struct{}
}

// GlobalRegistry is the shared process-wide registry.
var GlobalRegistry = &Registry{}

// SetGlobal stores a value for a key.
func (r *Registry) SetGlobal(key string, value interface{}) {
	r.m.Store(key, value)
}

// GetGlobal retrieves a value for a key.
func (r *Registry) GetGlobal(key string) (interface{}, bool) {
	return r.m.Load(key)
}

// Lock marks a key immutable. Registration helpers check IsLocked and panic.
func (r *Registry) Lock(key string) {
	r.locked.Store(key, struct{}{})
}

// IsLocked reports whether a key has been locked.
func (r *Registry) IsLocked(key string) bool {
	_, ok := r.locked.Load(key)
	return ok
}

// UnlockForTesting clears a key's lock so tests can re-register.
func (r *Registry) UnlockForTesting(key string) {
	r.locked.Delete(key)
}
