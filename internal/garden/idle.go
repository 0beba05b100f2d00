package garden

import (
	"sync"
	"time"
)

// IdleMonitor fires a single action after a fixed period with no garden
// mutations. Every mutation calls Touch, restarting the countdown. After
// firing, the countdown stays stopped until the next Touch; a garden that
// was just reset does restart it, because the reset itself is a mutation.
type IdleMonitor struct {
	mu      sync.Mutex
	timeout time.Duration
	action  func()
	timer   *time.Timer
	stopped bool

	// afterFunc is swapped out in tests to control firing.
	afterFunc func(time.Duration, func()) *time.Timer
}

// NewIdleMonitor creates a monitor that invokes action after timeout of
// inactivity. The countdown does not start until the first Touch. A
// non-positive timeout falls back to DefaultIdleTimeout.
func NewIdleMonitor(timeout time.Duration, action func()) *IdleMonitor {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	return &IdleMonitor{
		timeout:   timeout,
		action:    action,
		afterFunc: time.AfterFunc,
	}
}

// Touch restarts the idle countdown. Safe to call from any goroutine,
// including while the engine holds its own lock: the action runs on the
// timer's goroutine, never inline.
func (m *IdleMonitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = m.afterFunc(m.timeout, m.fire)
}

// Stop cancels the monitor permanently. It has no side effects beyond
// preventing any future firing; an in-flight action is not interrupted.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// fire runs the idle action once. It does not reschedule; the next Touch
// does.
func (m *IdleMonitor) fire() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	action := m.action
	m.mu.Unlock()

	// Run without holding m.mu: the action mutates the engine, and a
	// mutation calls back into Touch.
	if action != nil {
		action()
	}
}
