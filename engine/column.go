package engine

import (
	"fmt"
	"iter"
)

const (
	// Arenas smaller than this are never compacted
	compactMinimum = 4 * arenaChunkSize
	// An arena is compacted once it holds more than this many slots per live entry
	compactRatio = 2
)

// Column is a typed handle to one component table registered in a Schema
// Handles are plain values; copy them freely into systems
type Column[T any] struct {
	id   int
	name string
}

// Name returns the registered column name
func (c Column[T]) Name() string {
	return c.name
}

// Get returns the component of e as seen by r
func (c Column[T]) Get(r Reader, e Entity) (T, bool) {
	return c.table(r).lookup(e)
}

// Has reports whether e carries this component in r
func (c Column[T]) Has(r Reader, e Entity) bool {
	_, ok := c.table(r).lookup(e)
	return ok
}

// Len returns the number of entities carrying this component in r
func (c Column[T]) Len(r Reader) int {
	return c.table(r).count()
}

// Each visits components in ascending entity order until fn returns false
func (c Column[T]) Each(r Reader, fn func(Entity, T) bool) {
	c.table(r).each(fn)
}

// All returns an iterator over components in ascending entity order
func (c Column[T]) All(r Reader) iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		c.table(r).each(yield)
	}
}

// Set writes the component of a live entity into the transaction's working copy
func (c Column[T]) Set(tx *Txn, e Entity, v T) error {
	if !tx.Alive(e) {
		return fmt.Errorf("set %s on %d: %w", c.name, e, ErrEntityNotAlive)
	}
	tx.edit(c.id).(*columnWriter[T]).set(e, v)
	return nil
}

// Remove detaches the component from e; missing components are ignored
func (c Column[T]) Remove(tx *Txn, e Entity) {
	if c.Has(tx, e) {
		tx.edit(c.id).remove(e)
	}
}

func (c Column[T]) table(r Reader) columnLookup[T] {
	t, ok := r.columnAt(c.id).(columnLookup[T])
	if !ok {
		panic(fmt.Sprintf("engine: column %q (id %d) does not belong to this store", c.name, c.id))
	}
	return t
}

// Join2 visits entities carrying both components, in ascending entity order
func Join2[A, B any](r Reader, a Column[A], b Column[B], fn func(Entity, A, B) bool) {
	bt := b.table(r)
	a.table(r).each(func(e Entity, av A) bool {
		bv, ok := bt.lookup(e)
		if !ok {
			return true
		}
		return fn(e, av, bv)
	})
}

// columnSnapshot is the type-erased face of one column inside a generation or transaction
type columnSnapshot interface {
	has(e Entity) bool
	count() int
}

// columnLookup is the typed read face of a column
type columnLookup[T any] interface {
	lookup(e Entity) (T, bool)
	each(fn func(Entity, T) bool)
	count() int
}

// columnEdit is a column forked into a transaction
type columnEdit interface {
	columnSnapshot
	remove(e Entity)
	commit() columnSnapshot
	rollback()
}

// columnTable owns the arena shared across generations of one column
type columnTable interface {
	empty() columnSnapshot
	fork(base columnSnapshot, o *owner) columnEdit
}

// columnView is a column frozen inside a generation
type columnView[T any] struct {
	index  trie[int32]
	values arenaView[T]
}

func (v *columnView[T]) lookup(e Entity) (T, bool) {
	i, ok := v.index.get(uint64(e))
	if !ok {
		var zero T
		return zero, false
	}
	return v.values.at(i), true
}

func (v *columnView[T]) has(e Entity) bool {
	_, ok := v.index.get(uint64(e))
	return ok
}

func (v *columnView[T]) count() int {
	return v.index.count
}

func (v *columnView[T]) each(fn func(Entity, T) bool) {
	v.index.each(func(k uint64, i int32) bool {
		return fn(Entity(k), v.values.at(i))
	})
}

type typedTable[T any] struct {
	values *arena[T]
}

func newTypedTable[T any]() columnTable {
	return &typedTable[T]{values: &arena[T]{}}
}

func (t *typedTable[T]) empty() columnSnapshot {
	return &columnView[T]{}
}

func (t *typedTable[T]) fork(base columnSnapshot, o *owner) columnEdit {
	bv := base.(*columnView[T])
	w := &columnWriter[T]{
		table:  t,
		values: t.values,
		mark:   t.values.size,
		index:  bv.index,
		owner:  o,
	}
	if int(t.values.size) >= compactMinimum && int(t.values.size) > compactRatio*bv.index.count {
		w.compact()
	}
	return w
}

// columnWriter is the working copy of one column during a transaction
// Slots at or after mark (or every slot of a fresh arena) are private to the transaction
type columnWriter[T any] struct {
	table  *typedTable[T]
	values *arena[T]
	mark   int32
	fresh  bool
	index  trie[int32]
	owner  *owner
}

// compact moves live entries into a new arena; the old one stays with earlier generations
func (w *columnWriter[T]) compact() {
	values := &arena[T]{}
	var index trie[int32]
	w.index.each(func(k uint64, i int32) bool {
		index = index.set(k, values.push(w.values.at(i)), w.owner)
		return true
	})
	w.values = values
	w.index = index
	w.fresh = true
}

func (w *columnWriter[T]) private(i int32) bool {
	return w.fresh || i >= w.mark
}

func (w *columnWriter[T]) set(e Entity, v T) {
	if i, ok := w.index.get(uint64(e)); ok && w.private(i) {
		w.values.overwrite(i, v)
		return
	}
	w.index = w.index.set(uint64(e), w.values.push(v), w.owner)
}

func (w *columnWriter[T]) remove(e Entity) {
	w.index = w.index.remove(uint64(e), w.owner)
}

func (w *columnWriter[T]) lookup(e Entity) (T, bool) {
	i, ok := w.index.get(uint64(e))
	if !ok {
		var zero T
		return zero, false
	}
	return w.values.at(i), true
}

func (w *columnWriter[T]) has(e Entity) bool {
	_, ok := w.index.get(uint64(e))
	return ok
}

func (w *columnWriter[T]) count() int {
	return w.index.count
}

func (w *columnWriter[T]) each(fn func(Entity, T) bool) {
	w.index.each(func(k uint64, i int32) bool {
		return fn(Entity(k), w.values.at(i))
	})
}

func (w *columnWriter[T]) commit() columnSnapshot {
	w.table.values = w.values
	return &columnView[T]{index: w.index, values: w.values.view()}
}

func (w *columnWriter[T]) rollback() {
	if !w.fresh {
		w.values.truncate(w.mark)
	}
}
