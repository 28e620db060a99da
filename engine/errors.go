package engine

import "errors"

var (
	// ErrInvalidRate is returned when a Rate has a zero count or non-positive period
	ErrInvalidRate = errors.New("invalid rate")

	// ErrLagBudget is returned when a Metronome is constructed with a zero lag budget
	ErrLagBudget = errors.New("lag budget must be positive")

	// ErrEntityNotAlive is returned when writing a component to a missing entity
	ErrEntityNotAlive = errors.New("entity not alive")

	// ErrSchemaSealed is raised when registering into a schema already bound to a store
	ErrSchemaSealed = errors.New("schema sealed")
)
