package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qsketch/qsketch/internal/circuit"
)

func newTestCircuit(t *testing.T, n int) *circuit.Circuit {
	t.Helper()
	c, err := circuit.NewWithQubits(n)
	require.NoError(t, err)
	return c
}

func addGate(t *testing.T, c *circuit.Circuit, kind circuit.GateKind, qubits []int, params []float64, position int) {
	t.Helper()
	_, err := c.AddGate(kind, qubits, params, position)
	require.NoError(t, err)
}

func TestLocalBackendDeterministicGates(t *testing.T) {
	// X|0> = |1>, so every shot must read "1".
	c := newTestCircuit(t, 1)
	addGate(t, c, circuit.GateX, []int{0}, nil, 0)
	addGate(t, c, circuit.GateMeasure, []int{0}, nil, 1)

	b := NewSeededLocalBackend(0, 42)
	counts, err := b.Execute(context.Background(), c, 100)
	require.NoError(t, err)

	assert.Equal(t, Counts{"1": 100}, counts)
}

func TestLocalBackendBellPair(t *testing.T) {
	c := newTestCircuit(t, 2)
	addGate(t, c, circuit.GateH, []int{0}, nil, 0)
	addGate(t, c, circuit.GateCX, []int{0, 1}, nil, 1)
	addGate(t, c, circuit.GateMeasure, []int{0}, nil, 2)
	addGate(t, c, circuit.GateMeasure, []int{1}, nil, 2)

	b := NewSeededLocalBackend(0, 42)
	counts, err := b.Execute(context.Background(), c, 2000)
	require.NoError(t, err)

	// Entanglement forbids mixed outcomes.
	assert.Zero(t, counts["01"])
	assert.Zero(t, counts["10"])
	assert.Equal(t, 2000, counts.TotalShots())

	// Both halves should appear with roughly equal weight.
	assert.InDelta(t, 0.5, counts.Probabilities()["00"], 0.1)
	assert.InDelta(t, 0.5, counts.Probabilities()["11"], 0.1)
}

func TestLocalBackendGHZ(t *testing.T) {
	c := newTestCircuit(t, 3)
	addGate(t, c, circuit.GateH, []int{0}, nil, 0)
	addGate(t, c, circuit.GateCX, []int{0, 1}, nil, 1)
	addGate(t, c, circuit.GateCX, []int{1, 2}, nil, 2)

	// No explicit measurements: the full register is sampled.
	b := NewSeededLocalBackend(0, 7)
	counts, err := b.Execute(context.Background(), c, 1000)
	require.NoError(t, err)

	for outcome := range counts {
		assert.Contains(t, []string{"000", "111"}, outcome)
	}
}

func TestLocalBackendPartialMeasurement(t *testing.T) {
	// Only qubit 1 is measured, so outcomes are single bits.
	c := newTestCircuit(t, 2)
	addGate(t, c, circuit.GateX, []int{1}, nil, 0)
	addGate(t, c, circuit.GateH, []int{0}, nil, 0)
	addGate(t, c, circuit.GateMeasure, []int{1}, nil, 1)

	b := NewSeededLocalBackend(0, 1)
	counts, err := b.Execute(context.Background(), c, 50)
	require.NoError(t, err)

	assert.Equal(t, Counts{"1": 50}, counts)
}

func TestLocalBackendSwapAndToffoli(t *testing.T) {
	// X on qubit 0, SWAP 0<->1, CCX(0,1 -> 2): only one control is set, so
	// the target stays 0 and the register reads |010>.
	c := newTestCircuit(t, 3)
	addGate(t, c, circuit.GateX, []int{0}, nil, 0)
	addGate(t, c, circuit.GateSwap, []int{0, 1}, nil, 1)
	addGate(t, c, circuit.GateCCX, []int{0, 1, 2}, nil, 2)

	b := NewSeededLocalBackend(0, 3)
	counts, err := b.Execute(context.Background(), c, 20)
	require.NoError(t, err)

	assert.Equal(t, Counts{"010": 20}, counts)
}

func TestLocalBackendRotation(t *testing.T) {
	// RY(pi) acts as a bit flip up to phase.
	c := newTestCircuit(t, 1)
	addGate(t, c, circuit.GateRY, []int{0}, []float64{3.141592653589793}, 0)

	b := NewSeededLocalBackend(0, 9)
	counts, err := b.Execute(context.Background(), c, 30)
	require.NoError(t, err)

	assert.Equal(t, 30, counts["1"])
}

func TestLocalBackendSeedReproducibility(t *testing.T) {
	c := newTestCircuit(t, 2)
	addGate(t, c, circuit.GateH, []int{0}, nil, 0)
	addGate(t, c, circuit.GateH, []int{1}, nil, 0)

	run := func() Counts {
		b := NewSeededLocalBackend(0, 1234)
		counts, err := b.Execute(context.Background(), c, 500)
		require.NoError(t, err)
		return counts
	}

	assert.Equal(t, run(), run())
}

func TestLocalBackendHonorsContext(t *testing.T) {
	c := newTestCircuit(t, 1)
	addGate(t, c, circuit.GateH, []int{0}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewSeededLocalBackend(0, 1)
	_, err := b.Execute(ctx, c, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountsHelpers(t *testing.T) {
	counts := Counts{"00": 600, "11": 400}

	assert.Equal(t, 1000, counts.TotalShots())
	assert.InDelta(t, 0.6, counts.Probabilities()["00"], 1e-9)
	assert.Equal(t, "00", counts.MostFrequent())

	// Ties resolve to the lexicographically smallest outcome.
	tied := Counts{"11": 5, "00": 5}
	assert.Equal(t, "00", tied.MostFrequent())

	assert.Equal(t, "", Counts{}.MostFrequent())
	assert.Empty(t, Counts{}.Probabilities())
}
