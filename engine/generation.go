package engine

// Entity identifies a simulation entity; zero is never allocated
type Entity uint64

// Reader is implemented by *Generation and *Txn; column and resource handles read through it
type Reader interface {
	// Tick returns the tick whose completion the state represents
	Tick() TickCounter
	// Len returns the number of live entities
	Len() int
	// Alive reports whether e exists
	Alive(e Entity) bool

	columnAt(id int) columnSnapshot
	resourceAt(id int) any
}

// Generation is an immutable snapshot of the simulation as of one tick
// Generations share every structure a transition did not touch
type Generation struct {
	tick      TickCounter
	nextID    Entity
	alive     trie[struct{}]
	columns   []columnSnapshot
	resources []any
}

// Tick returns the tick this generation completed
func (g *Generation) Tick() TickCounter {
	return g.tick
}

// Len returns the number of live entities
func (g *Generation) Len() int {
	return g.alive.count
}

// Alive reports whether e exists in this generation
func (g *Generation) Alive(e Entity) bool {
	_, ok := g.alive.get(uint64(e))
	return ok
}

// Entities visits live entities in ascending order until fn returns false
func (g *Generation) Entities(fn func(Entity) bool) {
	g.alive.each(func(k uint64, _ struct{}) bool {
		return fn(Entity(k))
	})
}

func (g *Generation) columnAt(id int) columnSnapshot {
	if id < 0 || id >= len(g.columns) {
		return nil
	}
	return g.columns[id]
}

func (g *Generation) resourceAt(id int) any {
	if id < 0 || id >= len(g.resources) {
		return nil
	}
	return g.resources[id]
}
