package circuit

// GateKind identifies a gate from the closed supported set.
type GateKind string

const (
	GateH       GateKind = "H"
	GateX       GateKind = "X"
	GateY       GateKind = "Y"
	GateZ       GateKind = "Z"
	GateS       GateKind = "S"
	GateT       GateKind = "T"
	GateRX      GateKind = "RX"
	GateRY      GateKind = "RY"
	GateRZ      GateKind = "RZ"
	GateCX      GateKind = "CX"
	GateCY      GateKind = "CY"
	GateCZ      GateKind = "CZ"
	GateSwap    GateKind = "SWAP"
	GateCCX     GateKind = "CCX"
	GateMeasure GateKind = "MEASURE"
)

// GateSpec describes the fixed shape of a gate kind: how many qubit operands
// it takes and how many numeric parameters it carries.
type GateSpec struct {
	Kind        GateKind `json:"kind"`
	Arity       int      `json:"arity"`
	NumParams   int      `json:"num_params"`
	QASMName    string   `json:"qasm_name"`
	Description string   `json:"description"`
}

var gateSpecs = map[GateKind]GateSpec{
	GateH:       {GateH, 1, 0, "h", "Hadamard gate, creates superposition."},
	GateX:       {GateX, 1, 0, "x", "Pauli-X gate, flips the qubit."},
	GateY:       {GateY, 1, 0, "y", "Pauli-Y gate, rotates around the Y axis."},
	GateZ:       {GateZ, 1, 0, "z", "Pauli-Z gate, flips the phase."},
	GateS:       {GateS, 1, 0, "s", "Phase gate, quarter turn in phase space."},
	GateT:       {GateT, 1, 0, "t", "T gate, eighth turn in phase space."},
	GateRX:      {GateRX, 1, 1, "rx", "Rotation around the X axis by an angle."},
	GateRY:      {GateRY, 1, 1, "ry", "Rotation around the Y axis by an angle."},
	GateRZ:      {GateRZ, 1, 1, "rz", "Rotation around the Z axis by an angle."},
	GateCX:      {GateCX, 2, 0, "cx", "Controlled-NOT, flips the target when the control is 1."},
	GateCY:      {GateCY, 2, 0, "cy", "Controlled-Y."},
	GateCZ:      {GateCZ, 2, 0, "cz", "Controlled-Z, phase flip on the target when the control is 1."},
	GateSwap:    {GateSwap, 2, 0, "swap", "Swaps the states of two qubits."},
	GateCCX:     {GateCCX, 3, 0, "ccx", "Toffoli gate, X on the target when both controls are 1."},
	GateMeasure: {GateMeasure, 1, 0, "measure", "Measures a qubit into its classical bit."},
}

// Spec returns the gate spec for the given kind. The second return value is
// false for unknown kinds.
func Spec(kind GateKind) (GateSpec, bool) {
	s, ok := gateSpecs[kind]
	return s, ok
}

// Catalog returns all supported gate specs in a stable order, suitable for a
// gate palette or API listing.
func Catalog() []GateSpec {
	order := []GateKind{
		GateH, GateX, GateY, GateZ, GateS, GateT,
		GateRX, GateRY, GateRZ,
		GateCX, GateCY, GateCZ, GateSwap, GateCCX,
		GateMeasure,
	}
	specs := make([]GateSpec, 0, len(order))
	for _, k := range order {
		specs = append(specs, gateSpecs[k])
	}
	return specs
}
