package engine

import (
	"fmt"
	"sync"
)

// Store holds exactly two generations: the one before the last tick and the one after it
// Advance is serialized; readers may call View, Previous, Current or Pair from any goroutine
type Store struct {
	mu      sync.RWMutex // guards previous/current handles
	advance sync.Mutex   // serializes transitions

	tables   []columnTable
	previous *Generation
	current  *Generation
	failed   string // name of the system behind the last failed Advance
}

// NewStore seals schema and builds generation zero by running setup systems in order
// Both handles point at generation zero afterwards
func NewStore(schema *Schema, setup ...System) (*Store, error) {
	tables, resources := schema.seal()

	columns := make([]columnSnapshot, len(tables))
	for i, t := range tables {
		columns[i] = t.empty()
	}
	zero := &Generation{
		nextID:    1,
		columns:   columns,
		resources: resources,
	}

	s := &Store{tables: tables, previous: zero, current: zero}
	if len(setup) == 0 {
		return s, nil
	}

	tx := newTxn(zero, tables, 0)
	if name, err := runSystems(tx, setup); err != nil {
		return nil, fmt.Errorf("setup system %s: %w", name, err)
	}
	g := tx.commit()
	s.previous, s.current = g, g
	return s, nil
}

// Advance produces the next generation by running systems over a working copy of current
// On success previous takes the old current. On error or panic both handles are left
// exactly as they were; a system's error is returned unchanged (its name is kept for
// LastFailure) and panics are re-raised after rollback.
func (s *Store) Advance(systems ...System) error {
	s.advance.Lock()
	defer s.advance.Unlock()

	s.mu.RLock()
	base := s.current
	s.mu.RUnlock()

	tx := newTxn(base, s.tables, base.tick+1)
	defer tx.rollback()

	if name, err := runSystems(tx, systems); err != nil {
		s.mu.Lock()
		s.failed = name
		s.mu.Unlock()
		return err
	}

	next := tx.commit()

	s.mu.Lock()
	s.previous, s.current = base, next
	s.failed = ""
	s.mu.Unlock()
	return nil
}

// LastFailure returns the name of the system whose error aborted the most recent
// Advance, or "" if that Advance succeeded
func (s *Store) LastFailure() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failed
}

func runSystems(tx *Txn, systems []System) (string, error) {
	for _, sys := range systems {
		if err := sys.Update(tx); err != nil {
			return SystemName(sys), err
		}
	}
	return "", nil
}

// View calls fn with a consistent previous/current pair
func (s *Store) View(fn func(prev, cur *Generation)) {
	prev, cur := s.Pair()
	fn(prev, cur)
}

// Pair returns the previous and current generations
func (s *Store) Pair() (prev, cur *Generation) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previous, s.current
}

// Previous returns the generation before the last tick
func (s *Store) Previous() *Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previous
}

// Current returns the latest generation
func (s *Store) Current() *Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
