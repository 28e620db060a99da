package system

import (
	"log"
	"sync"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/metronome/component"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/parameter"
)

// ControlInputSystem applies the latest submitted controls to their entities at the start of a tick
// Submit may be called from any goroutine; Update reads a consistent snapshot of submissions
type ControlInputSystem struct {
	cols component.Columns

	mu     sync.Mutex
	latest map[engine.Entity]component.ShipControls

	warn rate.Sometimes
}

// NewControlInputSystem creates a control input system writing into cols
func NewControlInputSystem(cols component.Columns) *ControlInputSystem {
	return &ControlInputSystem{
		cols:   cols,
		latest: make(map[engine.Entity]component.ShipControls),
		warn:   rate.Sometimes{Interval: parameter.AnomalyLogInterval},
	}
}

func (s *ControlInputSystem) Name() string {
	return "control_input"
}

// Priority returns the system's priority (runs first)
func (s *ControlInputSystem) Priority() int {
	return parameter.PriorityControlInput
}

// Submit records controls for e; the most recent submission wins
func (s *ControlInputSystem) Submit(e engine.Entity, controls component.ShipControls) {
	s.mu.Lock()
	s.latest[e] = controls
	s.mu.Unlock()
}

// Forget stops applying controls to e
func (s *ControlInputSystem) Forget(e engine.Entity) {
	s.mu.Lock()
	delete(s.latest, e)
	s.mu.Unlock()
}

// Update writes submitted controls that differ from the stored ones
// Entities without a ShipControls component are logged and skipped
func (s *ControlInputSystem) Update(tx *engine.Txn) error {
	s.mu.Lock()
	pending := make(map[engine.Entity]component.ShipControls, len(s.latest))
	for e, c := range s.latest {
		pending[e] = c
	}
	s.mu.Unlock()

	for e, controls := range pending {
		current, ok := s.cols.ShipControls.Get(tx, e)
		if !ok {
			s.warn.Do(func() {
				log.Printf("WARNING: missing player %d at tick %d", e, tx.Tick())
			})
			continue
		}
		if current == controls {
			continue
		}
		if err := s.cols.ShipControls.Set(tx, e, controls); err != nil {
			return err
		}
	}
	return nil
}
