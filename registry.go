package snapfit

import (
	"slices"
)

// SocketRegistry holds the socket set of the most recently loaded target.
// Each Replace installs a fresh immutable snapshot; readers get copies.
type SocketRegistry struct {
	sockets []Anchor
	loaded  bool
}

func NewSocketRegistry() *SocketRegistry {
	return &SocketRegistry{}
}

// Replace installs a new socket snapshot, typically right after the target
// model finished loading.
func (r *SocketRegistry) Replace(sockets []Anchor) {
	r.sockets = slices.Clone(sockets)
	r.loaded = true
}

// Clear forgets the current target, e.g. while a new one is loading.
func (r *SocketRegistry) Clear() {
	r.sockets = nil
	r.loaded = false
}

func (r *SocketRegistry) Loaded() bool { return r.loaded }

func (r *SocketRegistry) Len() int { return len(r.sockets) }

// Sockets returns a copy of the current snapshot. It is empty until a target
// has been loaded.
func (r *SocketRegistry) Sockets() []Anchor {
	if !r.loaded {
		return nil
	}
	return slices.Clone(r.sockets)
}

// Lookup returns the first socket with the given bare name.
func (r *SocketRegistry) Lookup(name string) (Anchor, bool) {
	for _, s := range r.sockets {
		if s.Name == name {
			return s, true
		}
	}
	return Anchor{}, false
}
