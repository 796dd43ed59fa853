// Package workspace owns the live circuits being edited. It enforces the
// single-writer contract: every mutation goes through Apply under one lock,
// so position-collision and arity checks never race, while reads hand out
// clones that are safe to generate code from or simulate concurrently.
package workspace

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qsketch/qsketch/internal/circuit"
)

// historyLimit caps the undo stack per circuit.
const historyLimit = 100

type entry struct {
	circ *circuit.Circuit
	undo []*circuit.Circuit
	redo []*circuit.Circuit
}

// Manager holds named circuits and serializes their mutation.
type Manager struct {
	mu       sync.RWMutex
	circuits map[uuid.UUID]*entry
	watchers map[uuid.UUID]circuit.Watcher

	logger *zap.Logger
}

// NewManager creates an empty workspace.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		circuits: make(map[uuid.UUID]*entry),
		watchers: make(map[uuid.UUID]circuit.Watcher),
		logger:   logger,
	}
}

// Create adds a new circuit with the given qubit count and returns its id.
func (m *Manager) Create(numQubits int) (uuid.UUID, error) {
	c, err := circuit.NewWithQubits(numQubits)
	if err != nil {
		return uuid.Nil, err
	}
	return m.Import(c), nil
}

// Import adds an existing circuit (for example one loaded from a file) to
// the workspace and returns its id.
func (m *Manager) Import(c *circuit.Circuit) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.circuits[id] = &entry{circ: c}
	m.logger.Info("circuit added to workspace",
		zap.String("circuit_id", id.String()),
		zap.Int("qubits", c.NumQubits()),
	)
	return id
}

// Circuit returns a clone of the circuit, safe to read, serialize, or
// simulate without blocking editors.
func (m *Manager) Circuit(id uuid.UUID) (*circuit.Circuit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.circuits[id]
	if !ok {
		return nil, circuit.NewNotFoundError("circuit %s not found", id)
	}
	return e.circ.Clone(), nil
}

// Remove deletes a circuit from the workspace.
func (m *Manager) Remove(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.circuits[id]; !ok {
		return circuit.NewNotFoundError("circuit %s not found", id)
	}
	delete(m.circuits, id)
	return nil
}

// IDs returns the ids of all circuits in the workspace.
func (m *Manager) IDs() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.circuits))
	for id := range m.circuits {
		ids = append(ids, id)
	}
	return ids
}

// Apply runs a command against a circuit under the write lock. On success
// the previous state is pushed onto the undo stack, the redo stack is
// cleared, and subscribers are notified. On error the circuit is unchanged.
func (m *Manager) Apply(id uuid.UUID, cmd circuit.Command) (circuit.Event, error) {
	m.mu.Lock()

	e, ok := m.circuits[id]
	if !ok {
		m.mu.Unlock()
		return circuit.Event{}, circuit.NewNotFoundError("circuit %s not found", id)
	}

	snapshot := e.circ.Clone()
	ev, err := cmd.Apply(e.circ)
	if err != nil {
		m.mu.Unlock()
		return circuit.Event{}, err
	}

	e.undo = append(e.undo, snapshot)
	if len(e.undo) > historyLimit {
		e.undo = e.undo[1:]
	}
	e.redo = nil

	m.logger.Debug("command applied",
		zap.String("circuit_id", id.String()),
		zap.String("command", cmd.Name()),
	)
	m.mu.Unlock()

	m.notify(id, ev)
	return ev, nil
}

// Undo restores the circuit to its state before the last command.
func (m *Manager) Undo(id uuid.UUID) error {
	m.mu.Lock()

	e, ok := m.circuits[id]
	if !ok {
		m.mu.Unlock()
		return circuit.NewNotFoundError("circuit %s not found", id)
	}
	if len(e.undo) == 0 {
		m.mu.Unlock()
		return circuit.NewNotFoundError("nothing to undo for circuit %s", id)
	}

	e.redo = append(e.redo, e.circ)
	e.circ = e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	m.mu.Unlock()

	m.notify(id, circuit.Event{Type: circuit.EventRestored})
	return nil
}

// Redo re-applies the most recently undone command.
func (m *Manager) Redo(id uuid.UUID) error {
	m.mu.Lock()

	e, ok := m.circuits[id]
	if !ok {
		m.mu.Unlock()
		return circuit.NewNotFoundError("circuit %s not found", id)
	}
	if len(e.redo) == 0 {
		m.mu.Unlock()
		return circuit.NewNotFoundError("nothing to redo for circuit %s", id)
	}

	e.undo = append(e.undo, e.circ)
	e.circ = e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	m.mu.Unlock()

	m.notify(id, circuit.Event{Type: circuit.EventRestored})
	return nil
}

// Subscribe registers a watcher for change events on all circuits. The
// returned token unsubscribes it.
func (m *Manager) Subscribe(w circuit.Watcher) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.New()
	m.watchers[token] = w
	return token
}

// Unsubscribe removes a watcher.
func (m *Manager) Unsubscribe(token uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watchers, token)
}

// notify fans an event out to subscribers. It runs outside the write lock
// so a slow watcher cannot stall editing.
func (m *Manager) notify(id uuid.UUID, ev circuit.Event) {
	m.mu.RLock()
	watchers := make([]circuit.Watcher, 0, len(m.watchers))
	for _, w := range m.watchers {
		watchers = append(watchers, w)
	}
	m.mu.RUnlock()

	for _, w := range watchers {
		w.Notify(id, ev)
	}
}
