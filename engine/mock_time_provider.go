package engine

import (
	"sync"
	"time"
)

// MockTimeProvider is a manually driven clock for tests and headless traces
// It may be moved backwards to exercise regression handling
type MockTimeProvider struct {
	mu     sync.Mutex
	now    time.Time
	script []time.Duration
	reads  int
}

// NewMockTimeProvider creates a mock clock reading start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

// Now applies the next scripted step, if any, and returns the reading
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.script) > 0 {
		m.now = m.now.Add(m.script[0])
		m.script = m.script[1:]
	}
	m.reads++
	return m.now
}

// SetTime jumps the clock to t
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock by d; negative d moves it backwards
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Script queues steps applied one per Now call, before the reading is taken
func (m *MockTimeProvider) Script(steps ...time.Duration) {
	m.mu.Lock()
	m.script = append(m.script, steps...)
	m.mu.Unlock()
}

// Reads returns how many times Now has been called
func (m *MockTimeProvider) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
