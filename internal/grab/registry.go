// Package grab tracks which logical keys are currently intercepted at the
// OS level.
package grab

import (
	"sort"
	"sync"

	"inputhook/internal/event"
)

// Registry is the process-visible record of grabbed keys. A key is a member
// exactly when the OS has been told to deliver it exclusively to this
// process's hook. All access goes through one mutex; the capture loop is
// the only writer.
type Registry struct {
	mu   sync.Mutex
	keys map[event.Key]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{keys: make(map[event.Key]struct{})}
}

// IsGrabbed reports whether a key is currently a member.
func (r *Registry) IsGrabbed(k event.Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.keys[k]
	return ok
}

// MarkGrabbed records a key as grabbed. Marking an existing member again is
// a no-op.
func (r *Registry) MarkGrabbed(k event.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k] = struct{}{}
}

// Unmark removes a key from the registry.
func (r *Registry) Unmark(k event.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, k)
}

// Grabbed returns the members in enumeration order. Shutdown walks this to
// release every OS-level grab the session took.
func (r *Registry) Grabbed() []event.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]event.Key, 0, len(r.keys))
	for k := range r.keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of grabbed keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}
