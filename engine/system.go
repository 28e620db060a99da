package engine

import "fmt"

// System mutates the working copy of one tick
// Systems run in ascending priority order; equal priorities keep registration order
type System interface {
	Update(tx *Txn) error
	Priority() int
}

// NamedSystem is implemented by systems that report a name for error messages
type NamedSystem interface {
	Name() string
}

// SystemName returns the name used to identify sys in errors and logs
func SystemName(sys System) string {
	if n, ok := sys.(NamedSystem); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sys)
}

// SystemFunc adapts a function to System
type SystemFunc struct {
	Label string
	Order int
	Fn    func(tx *Txn) error
}

func (f SystemFunc) Update(tx *Txn) error {
	return f.Fn(tx)
}

func (f SystemFunc) Priority() int {
	return f.Order
}

func (f SystemFunc) Name() string {
	if f.Label == "" {
		return "func"
	}
	return f.Label
}
