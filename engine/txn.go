package engine

// Txn is the working copy a tick's systems mutate
// Writes touch only structure owned by the transaction; the generation it was forked
// from, and anything else already published, is never modified
type Txn struct {
	base   *Generation
	tables []columnTable
	owner  *owner

	tick      TickCounter
	nextID    Entity
	alive     trie[struct{}]
	edits     []columnEdit
	resources []any
	resCopied bool
	done      bool
}

func newTxn(base *Generation, tables []columnTable, tick TickCounter) *Txn {
	return &Txn{
		base:      base,
		tables:    tables,
		owner:     &owner{},
		tick:      tick,
		nextID:    base.nextID,
		alive:     base.alive,
		edits:     make([]columnEdit, len(tables)),
		resources: base.resources,
	}
}

// Base returns the generation this transaction was forked from
func (tx *Txn) Base() *Generation {
	return tx.base
}

// Tick returns the tick being produced
func (tx *Txn) Tick() TickCounter {
	return tx.tick
}

// Len returns the number of live entities in the working copy
func (tx *Txn) Len() int {
	return tx.alive.count
}

// Alive reports whether e exists in the working copy
func (tx *Txn) Alive(e Entity) bool {
	_, ok := tx.alive.get(uint64(e))
	return ok
}

// Entities visits live entities in ascending order until fn returns false
func (tx *Txn) Entities(fn func(Entity) bool) {
	tx.alive.each(func(k uint64, _ struct{}) bool {
		return fn(Entity(k))
	})
}

// Spawn allocates a new entity; identifiers are deterministic per generation
func (tx *Txn) Spawn() Entity {
	tx.mustBeOpen()
	e := tx.nextID
	tx.nextID++
	tx.alive = tx.alive.set(uint64(e), struct{}{}, tx.owner)
	return e
}

// Destroy removes e and all its components; it reports whether e existed
func (tx *Txn) Destroy(e Entity) bool {
	tx.mustBeOpen()
	if !tx.Alive(e) {
		return false
	}
	for id := range tx.tables {
		if tx.columnAt(id).has(e) {
			tx.edit(id).remove(e)
		}
	}
	tx.alive = tx.alive.remove(uint64(e), tx.owner)
	return true
}

func (tx *Txn) columnAt(id int) columnSnapshot {
	if id < 0 || id >= len(tx.edits) {
		return nil
	}
	if ed := tx.edits[id]; ed != nil {
		return ed
	}
	return tx.base.columns[id]
}

func (tx *Txn) resourceAt(id int) any {
	if id < 0 || id >= len(tx.resources) {
		return nil
	}
	return tx.resources[id]
}

// edit forks column id into the transaction on first write
func (tx *Txn) edit(id int) columnEdit {
	tx.mustBeOpen()
	if ed := tx.edits[id]; ed != nil {
		return ed
	}
	ed := tx.tables[id].fork(tx.base.columns[id], tx.owner)
	tx.edits[id] = ed
	return ed
}

func (tx *Txn) setResource(id int, v any) {
	tx.mustBeOpen()
	if !tx.resCopied {
		tx.resources = append([]any(nil), tx.resources...)
		tx.resCopied = true
	}
	tx.resources[id] = v
}

// commit freezes the working copy into a new generation
func (tx *Txn) commit() *Generation {
	tx.mustBeOpen()
	tx.done = true

	columns := tx.base.columns
	for id, ed := range tx.edits {
		if ed == nil {
			continue
		}
		if sameSlice(columns, tx.base.columns) {
			columns = append([]columnSnapshot(nil), tx.base.columns...)
		}
		columns[id] = ed.commit()
	}

	return &Generation{
		tick:      tx.tick,
		nextID:    tx.nextID,
		alive:     tx.alive,
		columns:   columns,
		resources: tx.resources,
	}
}

// rollback releases everything the transaction appended
func (tx *Txn) rollback() {
	if tx.done {
		return
	}
	tx.done = true
	for _, ed := range tx.edits {
		if ed != nil {
			ed.rollback()
		}
	}
}

func (tx *Txn) mustBeOpen() {
	if tx.done {
		panic("engine: transaction used after completion")
	}
}

func sameSlice(a, b []columnSnapshot) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
