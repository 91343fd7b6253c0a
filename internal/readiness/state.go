package readiness

import (
	"context"
	"sync"
	"time"
)

// State tracks whether the reconciler has a trustworthy view of the pair.
type State int

const (
	StateStarting State = iota
	StateWaitingForPeer
	StateReady
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateWaitingForPeer:
		return "waiting_for_peer"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Manager struct {
	state    State
	since    time.Time
	mu       sync.RWMutex
	waitChan chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		state:    StateStarting,
		since:    time.Now(),
		waitChan: make(chan struct{}),
	}
}

// SetState records a transition and reports whether the state changed.
func (m *Manager) SetState(state State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldState := m.state
	if oldState == state {
		return false
	}
	m.state = state
	m.since = time.Now()

	if state == StateReady {
		close(m.waitChan)
	} else if oldState == StateReady {
		m.waitChan = make(chan struct{})
	}
	return true
}

func (m *Manager) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Since returns when the current state was entered.
func (m *Manager) Since() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.since
}

func (m *Manager) IsReady() bool {
	return m.GetState() == StateReady
}

func (m *Manager) WaitUntilReady(ctx context.Context) error {
	m.mu.RLock()
	if m.state == StateReady {
		m.mu.RUnlock()
		return nil
	}
	wait := m.waitChan
	m.mu.RUnlock()

	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) WaitUntilReadyTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return m.WaitUntilReady(ctx)
}
