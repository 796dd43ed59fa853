package circuit

import "github.com/google/uuid"

// EventType identifies a kind of circuit change.
type EventType string

const (
	EventQubitAdded   EventType = "qubit_added"
	EventQubitRemoved EventType = "qubit_removed"
	EventGateAdded    EventType = "gate_added"
	EventGateRemoved  EventType = "gate_removed"
	EventCleared      EventType = "cleared"
	EventRestored     EventType = "restored"
)

// Event describes a single change to a circuit. A renderer or any other
// observer subscribes to events instead of sharing mutable references with
// the model.
type Event struct {
	Type      EventType  `json:"type"`
	Qubit     int        `json:"qubit,omitempty"`
	Placement *Placement `json:"placement,omitempty"`
}

// Watcher receives change events. Notify is called after the mutation has
// been applied, outside the mutation itself; implementations must not block.
type Watcher interface {
	Notify(circuitID uuid.UUID, ev Event)
}

// WatcherFunc adapts a function to the Watcher interface.
type WatcherFunc func(circuitID uuid.UUID, ev Event)

func (f WatcherFunc) Notify(circuitID uuid.UUID, ev Event) {
	f(circuitID, ev)
}
