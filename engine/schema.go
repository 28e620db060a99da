package engine

import (
	"fmt"
	"sync"
)

// Schema lists the component columns and resources of a simulation
// Register everything before creating a Store; the first Store seals the schema
type Schema struct {
	mu        sync.Mutex
	sealed    bool
	columns   []columnSpec
	resources []resourceSpec
}

type columnSpec struct {
	name     string
	newTable func() columnTable
}

type resourceSpec struct {
	name    string
	initial any
}

// NewSchema creates an empty schema
func NewSchema() *Schema {
	return &Schema{}
}

// RegisterColumn adds a component column of type T and returns its handle
// Panics if the schema is sealed
func RegisterColumn[T any](s *Schema, name string) Column[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustBeOpen(name)

	id := len(s.columns)
	s.columns = append(s.columns, columnSpec{name: name, newTable: newTypedTable[T]})
	return Column[T]{id: id, name: name}
}

// RegisterResource adds a singleton value of type T with an initial value
// Panics if the schema is sealed
func RegisterResource[T any](s *Schema, name string, initial T) Resource[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustBeOpen(name)

	id := len(s.resources)
	s.resources = append(s.resources, resourceSpec{name: name, initial: initial})
	return Resource[T]{id: id, name: name}
}

func (s *Schema) mustBeOpen(name string) {
	if s.sealed {
		panic(fmt.Errorf("register %q: %w", name, ErrSchemaSealed))
	}
}

// seal freezes the schema and returns fresh tables plus initial resource values
func (s *Schema) seal() ([]columnTable, []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true

	tables := make([]columnTable, len(s.columns))
	for i, spec := range s.columns {
		tables[i] = spec.newTable()
	}
	resources := make([]any, len(s.resources))
	for i, spec := range s.resources {
		resources[i] = spec.initial
	}
	return tables, resources
}

// Resource is a typed handle to a singleton value registered in a Schema
type Resource[T any] struct {
	id   int
	name string
}

// Name returns the registered resource name
func (r Resource[T]) Name() string {
	return r.name
}

// Get returns the resource value as seen by rd
func (r Resource[T]) Get(rd Reader) T {
	v, ok := rd.resourceAt(r.id).(T)
	if !ok {
		panic(fmt.Sprintf("engine: resource %q (id %d) does not belong to this store", r.name, r.id))
	}
	return v
}

// Set replaces the resource value in the transaction's working copy
func (r Resource[T]) Set(tx *Txn, v T) {
	tx.setResource(r.id, v)
}
