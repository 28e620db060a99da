package engine

import (
	"cmp"
	"slices"
	"sync"
)

// World binds a Store to the ordered systems run on every tick
type World struct {
	mu      sync.RWMutex
	store   *Store
	systems []System
}

// NewWorld creates a world over store with no systems
func NewWorld(store *Store) *World {
	return &World{
		store:   store,
		systems: make([]System, 0),
	}
}

// AddSystem adds a system and keeps the list sorted by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)
	slices.SortStableFunc(w.systems, func(a, b System) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})
}

// Systems returns a copy of all registered systems in run order
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Store returns the underlying snapshot store
func (w *World) Store() *Store {
	return w.store
}

// Tick advances the store by one generation through every system
func (w *World) Tick() error {
	return w.store.Advance(w.Systems()...)
}

// View supplies the previous/current pair to fn
func (w *World) View(fn func(prev, cur *Generation)) {
	w.store.View(fn)
}
