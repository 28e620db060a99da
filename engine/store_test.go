package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPos struct {
	X, Y int
}

type testSchema struct {
	schema  *Schema
	pos     Column[testPos]
	name    Column[string]
	gravity Resource[int]
}

func newTestSchema() testSchema {
	s := NewSchema()
	return testSchema{
		schema:  s,
		pos:     RegisterColumn[testPos](s, "pos"),
		name:    RegisterColumn[string](s, "name"),
		gravity: RegisterResource(s, "gravity", 10),
	}
}

func spawnN(ts testSchema, n int) System {
	return SystemFunc{Label: "spawn", Fn: func(tx *Txn) error {
		for i := range n {
			e := tx.Spawn()
			if err := ts.pos.Set(tx, e, testPos{X: i}); err != nil {
				return err
			}
		}
		return nil
	}}
}

func moveAll(ts testSchema, dx int) System {
	return SystemFunc{Label: "move", Fn: func(tx *Txn) error {
		var err error
		ts.pos.Each(tx, func(e Entity, p testPos) bool {
			p.X += dx
			err = ts.pos.Set(tx, e, p)
			return err == nil
		})
		return err
	}}
}

func TestStoreConstruction(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 3))
	require.NoError(t, err)

	prev, cur := store.Pair()
	assert.Same(t, prev, cur, "previous and current start identical")
	assert.Equal(t, TickCounter(0), cur.Tick())
	assert.Equal(t, 3, cur.Len())
	assert.Equal(t, 3, ts.pos.Len(cur))
	assert.Equal(t, 10, ts.gravity.Get(cur))

	assert.PanicsWithError(t, fmt.Sprintf("register %q: %v", "late", ErrSchemaSealed), func() {
		RegisterColumn[int](ts.schema, "late")
	})
}

func TestStoreAdvanceRotatesGenerations(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 2))
	require.NoError(t, err)
	gen0 := store.Current()

	require.NoError(t, store.Advance(moveAll(ts, 1)))
	prev, cur := store.Pair()
	assert.Same(t, gen0, prev)
	assert.Equal(t, TickCounter(1), cur.Tick())

	require.NoError(t, store.Advance(moveAll(ts, 1)))
	prev2, cur2 := store.Pair()
	assert.Same(t, cur, prev2, "only two generations are live")
	assert.Equal(t, TickCounter(2), cur2.Tick())

	p, ok := ts.pos.Get(cur2, 1)
	require.True(t, ok)
	assert.Equal(t, testPos{X: 2}, p)
}

func TestGenerationIsFrozen(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 100))
	require.NoError(t, err)
	held := store.Current()

	for range 20 {
		require.NoError(t, store.Advance(moveAll(ts, 1)))
	}

	// The held generation still sees its original values
	ts.pos.Each(held, func(e Entity, p testPos) bool {
		assert.Equal(t, int(e-1), p.X)
		return true
	})
	p, _ := ts.pos.Get(store.Current(), 1)
	assert.Equal(t, 20, p.X)
}

func TestStoreStructuralSharing(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 10))
	require.NoError(t, err)

	rename := SystemFunc{Fn: func(tx *Txn) error {
		return ts.name.Set(tx, 3, "three")
	}}
	require.NoError(t, store.Advance(rename))

	prev, cur := store.Pair()
	// Untouched column is shared, not copied
	assert.Same(t, prev.columns[ts.pos.id], cur.columns[ts.pos.id])
	assert.NotSame(t, prev.columns[ts.name.id], cur.columns[ts.name.id])

	_, had := ts.name.Get(prev, 3)
	assert.False(t, had)
	got, has := ts.name.Get(cur, 3)
	assert.True(t, has)
	assert.Equal(t, "three", got)
}

var errBoom = errors.New("boom")

func TestStoreAdvanceFailureLeavesStateUnchanged(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 5))
	require.NoError(t, err)
	require.NoError(t, store.Advance(moveAll(ts, 1)))
	prevBefore, curBefore := store.Pair()

	failing := SystemFunc{Label: "exploder", Order: 1, Fn: func(tx *Txn) error {
		tx.Spawn()
		ts.gravity.Set(tx, 99)
		return errBoom
	}}
	err = store.Advance(moveAll(ts, 100), failing)

	require.Error(t, err)
	assert.Equal(t, errBoom, err, "system errors are returned unwrapped")
	assert.Equal(t, "exploder", store.LastFailure())

	prev, cur := store.Pair()
	assert.Same(t, prevBefore, prev)
	assert.Same(t, curBefore, cur)
	assert.Equal(t, 10, ts.gravity.Get(cur))
	assert.Equal(t, 5, cur.Len())

	// Values written by the rolled-back transaction are gone
	p, _ := ts.pos.Get(cur, 1)
	assert.Equal(t, 1, p.X)

	// The store keeps working after the failure
	require.NoError(t, store.Advance(moveAll(ts, 1)))
	assert.Empty(t, store.LastFailure())
	p, _ = ts.pos.Get(store.Current(), 1)
	assert.Equal(t, 2, p.X)
	assert.Equal(t, TickCounter(2), store.Current().Tick())
}

func TestStoreAdvancePanicRollsBackAndRepanics(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 5))
	require.NoError(t, err)
	prevBefore, curBefore := store.Pair()

	panicky := SystemFunc{Fn: func(tx *Txn) error {
		panic("system exploded")
	}}

	assert.PanicsWithValue(t, "system exploded", func() {
		_ = store.Advance(moveAll(ts, 7), panicky)
	})

	prev, cur := store.Pair()
	assert.Same(t, prevBefore, prev)
	assert.Same(t, curBefore, cur)

	require.NoError(t, store.Advance(moveAll(ts, 1)))
	p, _ := ts.pos.Get(store.Current(), 2)
	assert.Equal(t, 2, p.X)
}

func TestTxnSpawnDestroy(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 3))
	require.NoError(t, err)

	var spawned Entity
	err = store.Advance(SystemFunc{Fn: func(tx *Txn) error {
		assert.True(t, tx.Destroy(2))
		assert.False(t, tx.Destroy(2))
		assert.False(t, tx.Alive(2))
		spawned = tx.Spawn()
		return ts.name.Set(tx, spawned, "new")
	}})
	require.NoError(t, err)

	prev, cur := store.Pair()
	assert.Equal(t, Entity(4), spawned, "identifiers are never reused")
	assert.True(t, prev.Alive(2))
	assert.False(t, cur.Alive(2))
	assert.False(t, ts.pos.Has(cur, 2))
	assert.True(t, ts.pos.Has(prev, 2))
	assert.False(t, prev.Alive(spawned))

	var alive []Entity
	cur.Entities(func(e Entity) bool {
		alive = append(alive, e)
		return true
	})
	assert.Equal(t, []Entity{1, 3, 4}, alive)

	err = store.Advance(SystemFunc{Fn: func(tx *Txn) error {
		return ts.pos.Set(tx, 2, testPos{})
	}})
	assert.ErrorIs(t, err, ErrEntityNotAlive)
}

func TestTxnReadsOwnWrites(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 1))
	require.NoError(t, err)

	err = store.Advance(SystemFunc{Fn: func(tx *Txn) error {
		require.NoError(t, ts.pos.Set(tx, 1, testPos{X: 5}))
		require.NoError(t, ts.pos.Set(tx, 1, testPos{X: 6}))
		p, _ := ts.pos.Get(tx, 1)
		assert.Equal(t, 6, p.X)

		base, _ := ts.pos.Get(tx.Base(), 1)
		assert.Equal(t, 0, base.X)

		ts.pos.Remove(tx, 1)
		assert.False(t, ts.pos.Has(tx, 1))
		assert.True(t, tx.Alive(1))
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, ts.pos.Len(store.Current()))
}

func TestColumnCompaction(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 10))
	require.NoError(t, err)

	var held []*Generation
	for i := range 300 {
		require.NoError(t, store.Advance(moveAll(ts, 1)))
		if i%100 == 0 {
			held = append(held, store.Current())
		}
	}

	table := store.tables[ts.pos.id].(*typedTable[testPos])
	assert.LessOrEqual(t, int(table.values.size), compactMinimum+10)

	// Generations published before compaction keep their own arena
	for _, g := range held {
		ts.pos.Each(g, func(e Entity, p testPos) bool {
			assert.Equal(t, int(e-1)+int(g.Tick()), p.X)
			return true
		})
	}
	p, _ := ts.pos.Get(store.Current(), 10)
	assert.Equal(t, 309, p.X)
}

func TestJoin2(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 4), SystemFunc{Fn: func(tx *Txn) error {
		if err := ts.name.Set(tx, 2, "b"); err != nil {
			return err
		}
		return ts.name.Set(tx, 4, "d")
	}})
	require.NoError(t, err)

	var got []string
	Join2(store.Current(), ts.pos, ts.name, func(e Entity, p testPos, n string) bool {
		got = append(got, fmt.Sprintf("%d:%d:%s", e, p.X, n))
		return true
	})
	assert.Equal(t, []string{"2:1:b", "4:3:d"}, got)

	var all []Entity
	for e := range ts.pos.All(store.Current()) {
		all = append(all, e)
	}
	assert.Equal(t, []Entity{1, 2, 3, 4}, all)
}

func TestColumnFromForeignSchemaPanics(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema)
	require.NoError(t, err)

	other := NewSchema()
	RegisterColumn[int](other, "a")
	RegisterColumn[int](other, "b")
	foreign := RegisterColumn[int](other, "c")

	assert.Panics(t, func() {
		foreign.Len(store.Current())
	})
}

func TestStoreConcurrentReaders(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 50))
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				store.View(func(prev, cur *Generation) {
					// Every generation moves all entities together
					if cur.Tick() == 0 {
						return
					}
					a, _ := ts.pos.Get(cur, 1)
					b, _ := ts.pos.Get(cur, 50)
					if b.X-a.X != 49 {
						t.Errorf("torn generation %d: %d vs %d", cur.Tick(), a.X, b.X)
					}
					pa, _ := ts.pos.Get(prev, 1)
					if a.X-pa.X != 1 {
						t.Errorf("inconsistent pair at %d", cur.Tick())
					}
				})
			}
		}()
	}

	for range 500 {
		require.NoError(t, store.Advance(moveAll(ts, 1)))
	}
	close(stop)
	wg.Wait()
}

func TestWorldSystemOrder(t *testing.T) {
	ts := newTestSchema()
	store, err := NewStore(ts.schema, spawnN(ts, 1))
	require.NoError(t, err)
	world := NewWorld(store)

	var order []string
	record := func(name string, priority int) System {
		return SystemFunc{Label: name, Order: priority, Fn: func(tx *Txn) error {
			order = append(order, name)
			return nil
		}}
	}
	world.AddSystem(record("late", 20))
	world.AddSystem(record("early", 0))
	world.AddSystem(record("mid-a", 10))
	world.AddSystem(record("mid-b", 10))

	require.NoError(t, world.Tick())
	assert.Equal(t, []string{"early", "mid-a", "mid-b", "late"}, order)
	assert.Len(t, world.Systems(), 4)

	world.View(func(prev, cur *Generation) {
		assert.Equal(t, TickCounter(0), prev.Tick())
		assert.Equal(t, TickCounter(1), cur.Tick())
	})
}
