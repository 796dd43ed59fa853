package codegen

import (
	"fmt"
	"strings"

	"github.com/qsketch/qsketch/internal/circuit"
)

// qiskitTemplate is the runnable Python scaffold around the embedded QASM.
// It reconstructs the circuit, draws it, prints the state vector, simulates
// measurements, and plots the outcome histogram.
const qiskitTemplate = `# Generated Qiskit Code

from qiskit import QuantumCircuit, transpile
from qiskit_aer import AerSimulator
from qiskit.visualization import plot_histogram, plot_state_city
import matplotlib.pyplot as plt

# Reconstruct the circuit from QASM
qasm_str = """%s"""
qc = QuantumCircuit.from_qasm_str(qasm_str)

# Draw the circuit
qc.draw(output='mpl', fold=90)
plt.show()

# Simulate the circuit to get the state vector
simulator = AerSimulator(method='statevector')
transpiled_circuit = transpile(qc, simulator)
job = simulator.run(transpiled_circuit)
result = job.result()
state_vector = result.get_statevector()

# Print the state vector
print("State Vector:")
print(state_vector)

# Display the state vector
plot_state_city(state_vector)
plt.show()

# Simulate measurements
simulator_measure = AerSimulator(method='density_matrix')
transpiled_circuit_measure = transpile(qc, simulator_measure)
job_measure = simulator_measure.run(transpiled_circuit_measure)
result_measure = job_measure.result()
counts = result_measure.get_counts()

# Print the results
print("Simulation Results:")
print(counts)

# Plot the results
plot_histogram(counts)
plt.show()
`

// QiskitScript generates a self-contained Qiskit Python script for the
// circuit. The script embeds the QASM form, so it inherits QASM's
// deterministic ordering and validation.
func QiskitScript(c *circuit.Circuit) (string, error) {
	qasm, err := QASM(c)
	if err != nil {
		return "", err
	}
	// The QASM text already ends with a newline; trim it so the embedded
	// literal reads cleanly.
	return fmt.Sprintf(qiskitTemplate, strings.TrimSuffix(qasm, "\n")), nil
}
