package circuit

import "github.com/google/uuid"

// Command is an explicit, replayable mutation of a circuit. Commands carry
// all of their inputs, so UI event handling stays decoupled from model
// mutation: a frontend builds a command and hands it to the workspace, which
// applies it under the single-writer contract.
type Command interface {
	// Name identifies the command for logs and history entries.
	Name() string
	// Apply performs the mutation and returns the resulting change event.
	// On error the circuit is unchanged.
	Apply(c *Circuit) (Event, error)
}

// AddQubitCommand appends a qubit to the circuit.
type AddQubitCommand struct{}

func (AddQubitCommand) Name() string { return "add_qubit" }

func (AddQubitCommand) Apply(c *Circuit) (Event, error) {
	index := c.AddQubit()
	return Event{Type: EventQubitAdded, Qubit: index}, nil
}

// RemoveQubitCommand removes the qubit at Index.
type RemoveQubitCommand struct {
	Index int
}

func (RemoveQubitCommand) Name() string { return "remove_qubit" }

func (cmd RemoveQubitCommand) Apply(c *Circuit) (Event, error) {
	if err := c.RemoveQubit(cmd.Index); err != nil {
		return Event{}, err
	}
	return Event{Type: EventQubitRemoved, Qubit: cmd.Index}, nil
}

// AddGateCommand places a gate on the circuit.
type AddGateCommand struct {
	Kind     GateKind
	Qubits   []int
	Params   []float64
	Position int
}

func (AddGateCommand) Name() string { return "add_gate" }

func (cmd AddGateCommand) Apply(c *Circuit) (Event, error) {
	id, err := c.AddGate(cmd.Kind, cmd.Qubits, cmd.Params, cmd.Position)
	if err != nil {
		return Event{}, err
	}
	p, err := c.Placement(id)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: EventGateAdded, Placement: &p}, nil
}

// RemoveGateCommand removes the placement with ID.
type RemoveGateCommand struct {
	ID uuid.UUID
}

func (RemoveGateCommand) Name() string { return "remove_gate" }

func (cmd RemoveGateCommand) Apply(c *Circuit) (Event, error) {
	p, err := c.Placement(cmd.ID)
	if err != nil {
		return Event{}, err
	}
	if err := c.RemoveGate(cmd.ID); err != nil {
		return Event{}, err
	}
	return Event{Type: EventGateRemoved, Placement: &p}, nil
}

// ClearCommand removes all qubits and placements.
type ClearCommand struct{}

func (ClearCommand) Name() string { return "clear" }

func (ClearCommand) Apply(c *Circuit) (Event, error) {
	c.Clear()
	return Event{Type: EventCleared}, nil
}
