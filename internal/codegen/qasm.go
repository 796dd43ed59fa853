// Package codegen turns a circuit into executable source text. Generation is
// a pure function of the circuit state: the same unmodified circuit always
// yields byte-identical output, so callers can snapshot-test and cache it.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qsketch/qsketch/internal/circuit"
)

// QASM generates OpenQASM 2.0 source for the circuit: register declarations
// first, then gate statements in execution order (position, then lowest
// qubit, then insertion order).
//
// The circuit is re-validated even though the model keeps itself valid,
// because generation may be invoked on circuits loaded from a file or
// received over the network.
func QASM(c *circuit.Circuit) (string, error) {
	if err := check(c); err != nil {
		return "", err
	}

	numCbits := c.NumClassicalBits()
	if numCbits < 1 {
		numCbits = 1
	}

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits())
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numCbits)

	for _, p := range c.Sorted() {
		sb.WriteString(statement(p))
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// check rejects circuits that cannot be translated.
func check(c *circuit.Circuit) error {
	if c == nil {
		return circuit.NewValidationError("circuit is nil")
	}
	if c.NumQubits() == 0 {
		return circuit.NewValidationError("circuit has no qubits")
	}
	return c.Validate()
}

// statement renders a single placement as one QASM statement.
func statement(p circuit.Placement) string {
	spec, _ := circuit.Spec(p.Kind)

	if p.Kind == circuit.GateMeasure {
		return fmt.Sprintf("measure q[%d] -> c[%d];", p.Qubits[0], p.Qubits[0])
	}

	operands := make([]string, len(p.Qubits))
	for i, q := range p.Qubits {
		operands[i] = fmt.Sprintf("q[%d]", q)
	}

	if len(p.Params) > 0 {
		params := make([]string, len(p.Params))
		for i, v := range p.Params {
			params[i] = formatParam(v)
		}
		return fmt.Sprintf("%s(%s) %s;", spec.QASMName, strings.Join(params, ", "), strings.Join(operands, ", "))
	}
	return fmt.Sprintf("%s %s;", spec.QASMName, strings.Join(operands, ", "))
}

// formatParam renders a gate parameter with the shortest representation that
// round-trips, keeping output stable across runs.
func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
