package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qsketch/qsketch/internal/circuit"
)

func sampleCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.NewWithQubits(2)
	require.NoError(t, err)
	_, err = c.AddGate(circuit.GateH, []int{0}, nil, 0)
	require.NoError(t, err)
	_, err = c.AddGate(circuit.GateCX, []int{0, 1}, nil, 1)
	require.NoError(t, err)
	_, err = c.AddGate(circuit.GateRZ, []int{1}, []float64{0.5}, 2)
	require.NoError(t, err)
	_, err = c.AddGate(circuit.GateMeasure, []int{0}, nil, 3)
	require.NoError(t, err)
	return c
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleCircuit(t)

	data, err := Encode(original)
	require.NoError(t, err)

	loaded, err := Decode(data)
	require.NoError(t, err)

	assert.True(t, original.Equal(loaded), "round trip must preserve the circuit, ids included")
	assert.Equal(t, original.NumQubits(), loaded.NumQubits())
	assert.Equal(t, original.NumPlacements(), loaded.NumPlacements())
}

func TestEncodePayloadShape(t *testing.T) {
	data, err := Encode(sampleCircuit(t))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Equal(t, float64(FormatVersion), payload["format_version"])
	assert.Equal(t, float64(2), payload["num_qubits"])
	assert.Len(t, payload["placements"], 4)
	assert.NotEmpty(t, payload["checksum"])
}

func TestEncodeRejectsInvalid(t *testing.T) {
	_, err := Encode(nil)
	assert.True(t, circuit.IsKind(err, circuit.KindValidation))
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not a circuit file"},
		{"missing version", `{"num_qubits": 1, "placements": []}`},
		{
			"newer version",
			heredoc.Doc(`
				{
				    "format_version": 99,
				    "num_qubits": 1,
				    "placements": []
				}
			`),
		},
		{
			"invalid placement id",
			heredoc.Doc(`
				{
				    "format_version": 1,
				    "num_qubits": 1,
				    "placements": [
				        {"id": "not-a-uuid", "kind": "H", "qubits": [0], "position": 0}
				    ]
				}
			`),
		},
		{
			"placement references missing qubit",
			heredoc.Doc(`
				{
				    "format_version": 1,
				    "num_qubits": 1,
				    "placements": [
				        {"id": "5f2a9e0c-7c1d-4a43-9a51-0e6f8c1d2b3a", "kind": "CX", "qubits": [0, 1], "position": 0}
				    ]
				}
			`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.True(t, circuit.IsKind(err, circuit.KindValidation), "got %v", err)
		})
	}
}

func TestDecodeDetectsChecksumMismatch(t *testing.T) {
	data, err := Encode(sampleCircuit(t))
	require.NoError(t, err)

	// Tamper with the stored circuit without updating the checksum.
	require.Contains(t, string(data), `"num_qubits": 2`)
	corrupted := strings.Replace(string(data), `"num_qubits": 2`, `"num_qubits": 3`, 1)

	_, err = Decode([]byte(corrupted))
	require.Error(t, err)
	assert.True(t, circuit.IsKind(err, circuit.KindValidation))
	assert.Contains(t, err.Error(), "checksum")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	original := sampleCircuit(t)
	path := filepath.Join(t.TempDir(), "circuit.json")

	require.NoError(t, Save(original, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, original.Equal(loaded))
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "circuit.json")

	first := sampleCircuit(t)
	require.NoError(t, Save(first, path))

	second, err := circuit.NewWithQubits(1)
	require.NoError(t, err)
	_, err = second.AddGate(circuit.GateX, []int{0}, nil, 0)
	require.NoError(t, err)
	require.NoError(t, Save(second, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, second.Equal(loaded))

	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, circuit.IsKind(err, circuit.KindNotFound))
}
