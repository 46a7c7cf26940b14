package editor

import (
	"sync"
	"time"
)

// DefaultSelectionDelay is how long caret-driven checks wait for the
// display surface to report the settled selection.
const DefaultSelectionDelay = 10 * time.Millisecond

// Scheduler runs fn once after d. The returned func cancels it if it has
// not run yet.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler queues callbacks until Flush is called. Used in tests.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTask
}

type manualTask struct {
	delay    time.Duration
	fn       func()
	canceled bool
}

func (m *ManualScheduler) After(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	task := &manualTask{delay: d, fn: fn}
	m.pending = append(m.pending, task)
	return func() {
		m.mu.Lock()
		task.canceled = true
		m.mu.Unlock()
	}
}

// Pending returns the number of callbacks waiting to run.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Flush runs every queued callback in scheduling order.
func (m *ManualScheduler) Flush() {
	m.mu.Lock()
	tasks := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, t := range tasks {
		m.mu.Lock()
		canceled := t.canceled
		m.mu.Unlock()
		if !canceled {
			t.fn()
		}
	}
}
