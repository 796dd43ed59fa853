package circuit

import (
	"sort"

	"github.com/google/uuid"
)

// Placement is a gate placed on the circuit: a kind, the ordered qubit
// operands it acts on, optional numeric parameters, and a position (time
// step) establishing execution order along its qubits.
type Placement struct {
	ID       uuid.UUID `json:"id"`
	Kind     GateKind  `json:"kind"`
	Qubits   []int     `json:"qubits"`
	Params   []float64 `json:"params,omitempty"`
	Position int       `json:"position"`

	// seq is the insertion order, used as the final tie-breaker when
	// sorting placements into execution order.
	seq int
}

// References reports whether the placement acts on the given qubit.
func (p Placement) References(qubit int) bool {
	for _, q := range p.Qubits {
		if q == qubit {
			return true
		}
	}
	return false
}

func (p Placement) clone() Placement {
	c := p
	c.Qubits = append([]int(nil), p.Qubits...)
	if p.Params != nil {
		c.Params = append([]float64(nil), p.Params...)
	}
	return c
}

// Circuit holds an ordered collection of qubits and gate placements.
//
// A Circuit is not safe for unsynchronized concurrent mutation: add and
// remove operations read then write shared state. Callers must serialize
// mutations (the workspace manager does this); reads may run concurrently
// with each other but not with a mutation.
type Circuit struct {
	numQubits  int
	placements []Placement
	nextSeq    int
}

// New creates an empty circuit with no qubits.
func New() *Circuit {
	return &Circuit{}
}

// NewWithQubits creates a circuit with n qubits and no placements.
func NewWithQubits(n int) (*Circuit, error) {
	if n < 0 {
		return nil, NewValidationError("qubit count must not be negative, got %d", n)
	}
	return &Circuit{numQubits: n}, nil
}

// NumQubits returns the number of qubits in the circuit.
func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// NumPlacements returns the number of gate placements.
func (c *Circuit) NumPlacements() int {
	return len(c.placements)
}

// AddQubit appends a qubit and returns its 0-based index.
func (c *Circuit) AddQubit() int {
	index := c.numQubits
	c.numQubits++
	return index
}

// RemoveQubit removes the qubit at the given index. It fails with a
// reference error if any placement still acts on the qubit; the circuit is
// left unchanged in that case. Qubits above the removed index shift down by
// one, and placements referencing them are renumbered.
func (c *Circuit) RemoveQubit(index int) error {
	if index < 0 || index >= c.numQubits {
		return NewNotFoundError("qubit %d does not exist (circuit has %d qubits)", index, c.numQubits)
	}
	for _, p := range c.placements {
		if p.References(index) {
			return NewReferenceError("qubit %d is still referenced by placement %s", index, p.ID)
		}
	}
	for i := range c.placements {
		for j, q := range c.placements[i].Qubits {
			if q > index {
				c.placements[i].Qubits[j] = q - 1
			}
		}
	}
	c.numQubits--
	return nil
}

// AddGate places a gate on the circuit and returns the placement id. The
// operation is atomic: on any validation failure the circuit is unchanged.
func (c *Circuit) AddGate(kind GateKind, qubits []int, params []float64, position int) (uuid.UUID, error) {
	if err := c.checkPlacement(kind, qubits, params, position); err != nil {
		return uuid.Nil, err
	}
	p := Placement{
		ID:       uuid.New(),
		Kind:     kind,
		Qubits:   append([]int(nil), qubits...),
		Position: position,
		seq:      c.nextSeq,
	}
	if len(params) > 0 {
		p.Params = append([]float64(nil), params...)
	}
	c.nextSeq++
	c.placements = append(c.placements, p)
	return p.ID, nil
}

// checkPlacement validates a prospective placement against the circuit.
func (c *Circuit) checkPlacement(kind GateKind, qubits []int, params []float64, position int) error {
	spec, ok := Spec(kind)
	if !ok {
		return NewValidationError("unknown gate kind %q", kind)
	}
	if len(qubits) != spec.Arity {
		return NewValidationError("gate %s takes %d qubit(s), got %d", kind, spec.Arity, len(qubits))
	}
	if len(params) != spec.NumParams {
		return NewValidationError("gate %s takes %d parameter(s), got %d", kind, spec.NumParams, len(params))
	}
	if position < 0 {
		return NewValidationError("position must not be negative, got %d", position)
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= c.numQubits {
			return NewValidationError("qubit %d does not exist (circuit has %d qubits)", q, c.numQubits)
		}
		if seen[q] {
			return NewValidationError("gate %s references qubit %d more than once", kind, q)
		}
		seen[q] = true
	}
	for _, p := range c.placements {
		if p.Position != position {
			continue
		}
		for _, q := range qubits {
			if p.References(q) {
				return NewValidationError("position %d on qubit %d is already occupied by placement %s", position, q, p.ID)
			}
		}
	}
	return nil
}

// RemoveGate removes the placement with the given id.
func (c *Circuit) RemoveGate(id uuid.UUID) error {
	for i, p := range c.placements {
		if p.ID == id {
			c.placements = append(c.placements[:i], c.placements[i+1:]...)
			return nil
		}
	}
	return NewNotFoundError("placement %s not found", id)
}

// Placement returns the placement with the given id.
func (c *Circuit) Placement(id uuid.UUID) (Placement, error) {
	for _, p := range c.placements {
		if p.ID == id {
			return p.clone(), nil
		}
	}
	return Placement{}, NewNotFoundError("placement %s not found", id)
}

// Placements returns a copy of the placements in insertion order.
func (c *Circuit) Placements() []Placement {
	out := make([]Placement, 0, len(c.placements))
	for _, p := range c.placements {
		out = append(out, p.clone())
	}
	return out
}

// Sorted returns a copy of the placements in execution order: by position,
// ties broken by lowest qubit index, then by insertion order. This ordering
// is what makes code generation reproducible across runs.
func (c *Circuit) Sorted() []Placement {
	out := c.Placements()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		qi, qj := minQubit(out[i]), minQubit(out[j])
		if qi != qj {
			return qi < qj
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func minQubit(p Placement) int {
	m := p.Qubits[0]
	for _, q := range p.Qubits[1:] {
		if q < m {
			m = q
		}
	}
	return m
}

// Depth returns the number of time steps in the circuit.
func (c *Circuit) Depth() int {
	depth := 0
	for _, p := range c.placements {
		if p.Position+1 > depth {
			depth = p.Position + 1
		}
	}
	return depth
}

// NumClassicalBits returns the number of classical bits needed to hold the
// circuit's measurement outcomes. It is zero when nothing is measured.
func (c *Circuit) NumClassicalBits() int {
	maxMeasured := -1
	for _, p := range c.placements {
		if p.Kind == GateMeasure && p.Qubits[0] > maxMeasured {
			maxMeasured = p.Qubits[0]
		}
	}
	return maxMeasured + 1
}

// MeasuredQubits returns the sorted indices of qubits with a measurement.
func (c *Circuit) MeasuredQubits() []int {
	seen := make(map[int]bool)
	for _, p := range c.placements {
		if p.Kind == GateMeasure {
			seen[p.Qubits[0]] = true
		}
	}
	out := make([]int, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

// Validate re-checks every placement against the circuit's structure. The
// model keeps itself valid through AddGate, but circuits arriving from a
// file or the network cannot be trusted to have gone through it.
func (c *Circuit) Validate() error {
	if c.numQubits < 0 {
		return NewValidationError("qubit count must not be negative, got %d", c.numQubits)
	}
	occupied := make(map[[2]int]uuid.UUID)
	for _, p := range c.placements {
		spec, ok := Spec(p.Kind)
		if !ok {
			return NewValidationError("unknown gate kind %q in placement %s", p.Kind, p.ID)
		}
		if len(p.Qubits) != spec.Arity {
			return NewValidationError("placement %s: gate %s takes %d qubit(s), got %d", p.ID, p.Kind, spec.Arity, len(p.Qubits))
		}
		if len(p.Params) != spec.NumParams {
			return NewValidationError("placement %s: gate %s takes %d parameter(s), got %d", p.ID, p.Kind, spec.NumParams, len(p.Params))
		}
		if p.Position < 0 {
			return NewValidationError("placement %s: position must not be negative, got %d", p.ID, p.Position)
		}
		seen := make(map[int]bool, len(p.Qubits))
		for _, q := range p.Qubits {
			if q < 0 || q >= c.numQubits {
				return NewValidationError("placement %s references unknown qubit %d", p.ID, q)
			}
			if seen[q] {
				return NewValidationError("placement %s references qubit %d more than once", p.ID, q)
			}
			seen[q] = true
			slot := [2]int{p.Position, q}
			if other, taken := occupied[slot]; taken {
				return NewValidationError("placements %s and %s collide at position %d on qubit %d", other, p.ID, p.Position, q)
			}
			occupied[slot] = p.ID
		}
	}
	return nil
}

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	return &Circuit{
		numQubits:  c.numQubits,
		placements: c.Placements(),
		nextSeq:    c.nextSeq,
	}
}

// Clear removes all qubits and placements.
func (c *Circuit) Clear() {
	c.numQubits = 0
	c.placements = nil
	c.nextSeq = 0
}

// Equal reports structural equality: same qubit count and the same
// placements in the same insertion order. Placement ids must match too,
// which is what save/load round trips guarantee.
func (c *Circuit) Equal(other *Circuit) bool {
	if other == nil || c.numQubits != other.numQubits || len(c.placements) != len(other.placements) {
		return false
	}
	for i, p := range c.placements {
		q := other.placements[i]
		if p.ID != q.ID || p.Kind != q.Kind || p.Position != q.Position {
			return false
		}
		if len(p.Qubits) != len(q.Qubits) || len(p.Params) != len(q.Params) {
			return false
		}
		for j := range p.Qubits {
			if p.Qubits[j] != q.Qubits[j] {
				return false
			}
		}
		for j := range p.Params {
			if p.Params[j] != q.Params[j] {
				return false
			}
		}
	}
	return true
}

// Restore replaces the circuit's contents with a known-good placement set.
// It is used by the store and by undo snapshots; the input must have passed
// Validate.
func (c *Circuit) Restore(numQubits int, placements []Placement) {
	c.numQubits = numQubits
	c.placements = make([]Placement, 0, len(placements))
	for i, p := range placements {
		cp := p.clone()
		cp.seq = i
		c.placements = append(c.placements, cp)
	}
	c.nextSeq = len(placements)
}
