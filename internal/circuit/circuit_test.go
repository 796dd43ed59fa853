package circuit

import (
	"testing"

	"github.com/google/uuid"
)

// buildCircuit creates a circuit with n qubits for tests.
func buildCircuit(t *testing.T, n int) *Circuit {
	t.Helper()
	c, err := NewWithQubits(n)
	if err != nil {
		t.Fatalf("NewWithQubits(%d) failed: %v", n, err)
	}
	return c
}

// TestAddQubit tests qubit index assignment
func TestAddQubit(t *testing.T) {
	c := New()

	for want := 0; want < 4; want++ {
		if got := c.AddQubit(); got != want {
			t.Errorf("AddQubit returned index %d, want %d", got, want)
		}
	}
	if c.NumQubits() != 4 {
		t.Errorf("expected 4 qubits, got %d", c.NumQubits())
	}
}

// TestAddGateValidation tests that invalid placements are rejected and leave
// the circuit unchanged
func TestAddGateValidation(t *testing.T) {
	tests := []struct {
		name     string
		kind     GateKind
		qubits   []int
		params   []float64
		position int
		wantKind Kind
	}{
		{"unknown gate kind", GateKind("FOO"), []int{0}, nil, 0, KindValidation},
		{"arity too low", GateCX, []int{0}, nil, 0, KindValidation},
		{"arity too high", GateH, []int{0, 1}, nil, 0, KindValidation},
		{"missing rotation angle", GateRX, []int{0}, nil, 0, KindValidation},
		{"unexpected parameter", GateX, []int{0}, []float64{1.0}, 0, KindValidation},
		{"unknown qubit", GateH, []int{5}, nil, 0, KindValidation},
		{"negative qubit", GateH, []int{-1}, nil, 0, KindValidation},
		{"duplicate operand", GateCX, []int{1, 1}, nil, 0, KindValidation},
		{"negative position", GateH, []int{0}, nil, -1, KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildCircuit(t, 2)
			_, err := c.AddGate(tt.kind, tt.qubits, tt.params, tt.position)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !IsKind(err, tt.wantKind) {
				t.Errorf("expected error kind %v, got %v", tt.wantKind, err)
			}
			if c.NumPlacements() != 0 {
				t.Errorf("circuit should be unchanged, has %d placements", c.NumPlacements())
			}
		})
	}
}

// TestPositionCollision tests that two placements cannot occupy the same
// position on the same qubit
func TestPositionCollision(t *testing.T) {
	t.Run("same qubit same position", func(t *testing.T) {
		c := buildCircuit(t, 2)
		if _, err := c.AddGate(GateH, []int{0}, nil, 0); err != nil {
			t.Fatalf("first AddGate failed: %v", err)
		}
		_, err := c.AddGate(GateX, []int{0}, nil, 0)
		if !IsKind(err, KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
		if c.NumPlacements() != 1 {
			t.Errorf("expected 1 placement, got %d", c.NumPlacements())
		}
	})

	t.Run("overlap through multi-qubit gate", func(t *testing.T) {
		c := buildCircuit(t, 3)
		if _, err := c.AddGate(GateCX, []int{0, 1}, nil, 0); err != nil {
			t.Fatalf("first AddGate failed: %v", err)
		}
		_, err := c.AddGate(GateH, []int{1}, nil, 0)
		if !IsKind(err, KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("same position different qubits", func(t *testing.T) {
		c := buildCircuit(t, 2)
		if _, err := c.AddGate(GateH, []int{0}, nil, 0); err != nil {
			t.Fatalf("first AddGate failed: %v", err)
		}
		if _, err := c.AddGate(GateH, []int{1}, nil, 0); err != nil {
			t.Errorf("placements on distinct qubits should not collide: %v", err)
		}
	})

	t.Run("same qubit different positions", func(t *testing.T) {
		c := buildCircuit(t, 1)
		if _, err := c.AddGate(GateH, []int{0}, nil, 0); err != nil {
			t.Fatalf("first AddGate failed: %v", err)
		}
		if _, err := c.AddGate(GateX, []int{0}, nil, 1); err != nil {
			t.Errorf("different positions should not collide: %v", err)
		}
	})
}

// TestRemoveQubit tests reference protection and index renumbering
func TestRemoveQubit(t *testing.T) {
	t.Run("referenced qubit is protected", func(t *testing.T) {
		c := buildCircuit(t, 2)
		if _, err := c.AddGate(GateH, []int{0}, nil, 0); err != nil {
			t.Fatalf("AddGate failed: %v", err)
		}

		err := c.RemoveQubit(0)
		if !IsKind(err, KindReference) {
			t.Errorf("expected reference error, got %v", err)
		}
		if c.NumQubits() != 2 || c.NumPlacements() != 1 {
			t.Error("circuit should be unchanged after a rejected removal")
		}
	})

	t.Run("unknown index", func(t *testing.T) {
		c := buildCircuit(t, 1)
		if err := c.RemoveQubit(3); !IsKind(err, KindNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
		if err := c.RemoveQubit(-1); !IsKind(err, KindNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("higher indices shift down", func(t *testing.T) {
		c := buildCircuit(t, 3)
		id, err := c.AddGate(GateCX, []int{1, 2}, nil, 0)
		if err != nil {
			t.Fatalf("AddGate failed: %v", err)
		}

		if err := c.RemoveQubit(0); err != nil {
			t.Fatalf("RemoveQubit failed: %v", err)
		}
		if c.NumQubits() != 2 {
			t.Errorf("expected 2 qubits, got %d", c.NumQubits())
		}

		p, err := c.Placement(id)
		if err != nil {
			t.Fatalf("Placement lookup failed: %v", err)
		}
		if p.Qubits[0] != 0 || p.Qubits[1] != 1 {
			t.Errorf("expected operands [0 1] after renumbering, got %v", p.Qubits)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("circuit should still be valid: %v", err)
		}
	})
}

// TestRemoveGate tests placement removal by id
func TestRemoveGate(t *testing.T) {
	c := buildCircuit(t, 1)
	id, err := c.AddGate(GateH, []int{0}, nil, 0)
	if err != nil {
		t.Fatalf("AddGate failed: %v", err)
	}

	if err := c.RemoveGate(id); err != nil {
		t.Fatalf("RemoveGate failed: %v", err)
	}
	if c.NumPlacements() != 0 {
		t.Errorf("expected 0 placements, got %d", c.NumPlacements())
	}

	if err := c.RemoveGate(id); !IsKind(err, KindNotFound) {
		t.Errorf("expected not found error for removed id, got %v", err)
	}
	if err := c.RemoveGate(uuid.New()); !IsKind(err, KindNotFound) {
		t.Errorf("expected not found error for random id, got %v", err)
	}
}

// TestSortedOrder tests the deterministic execution ordering
func TestSortedOrder(t *testing.T) {
	c := buildCircuit(t, 3)

	// Insert out of position order on purpose
	late, _ := c.AddGate(GateX, []int{0}, nil, 2)
	midHigh, _ := c.AddGate(GateH, []int{2}, nil, 1)
	midLow, _ := c.AddGate(GateH, []int{1}, nil, 1)
	first, _ := c.AddGate(GateH, []int{0}, nil, 0)

	want := []uuid.UUID{first, midLow, midHigh, late}
	sorted := c.Sorted()
	if len(sorted) != len(want) {
		t.Fatalf("expected %d placements, got %d", len(want), len(sorted))
	}
	for i, p := range sorted {
		if p.ID != want[i] {
			t.Errorf("position %d: expected placement %s, got %s", i, want[i], p.ID)
		}
	}
}

// TestClassicalBits tests measurement-derived classical register sizing
func TestClassicalBits(t *testing.T) {
	c := buildCircuit(t, 3)

	if c.NumClassicalBits() != 0 {
		t.Errorf("expected 0 classical bits without measurements, got %d", c.NumClassicalBits())
	}

	if _, err := c.AddGate(GateMeasure, []int{2}, nil, 0); err != nil {
		t.Fatalf("AddGate failed: %v", err)
	}
	if c.NumClassicalBits() != 3 {
		t.Errorf("expected 3 classical bits after measuring qubit 2, got %d", c.NumClassicalBits())
	}

	measured := c.MeasuredQubits()
	if len(measured) != 1 || measured[0] != 2 {
		t.Errorf("expected measured qubits [2], got %v", measured)
	}
}

// TestValidateDetectsCorruption tests the defensive re-check used for
// deserialized circuits
func TestValidateDetectsCorruption(t *testing.T) {
	c := buildCircuit(t, 2)
	if _, err := c.AddGate(GateCX, []int{0, 1}, nil, 0); err != nil {
		t.Fatalf("AddGate failed: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("valid circuit should pass: %v", err)
	}

	// Rebuild the circuit with a placement referencing a missing qubit,
	// as a corrupted file would
	bad := New()
	bad.Restore(1, []Placement{{
		ID:       uuid.New(),
		Kind:     GateCX,
		Qubits:   []int{0, 1},
		Position: 0,
	}})
	if err := bad.Validate(); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

// TestCloneAndEqual tests deep copy independence
func TestCloneAndEqual(t *testing.T) {
	c := buildCircuit(t, 2)
	if _, err := c.AddGate(GateRX, []int{0}, []float64{1.5708}, 0); err != nil {
		t.Fatalf("AddGate failed: %v", err)
	}

	clone := c.Clone()
	if !c.Equal(clone) {
		t.Fatal("clone should equal the original")
	}

	clone.AddQubit()
	if c.Equal(clone) {
		t.Error("mutating the clone must not affect equality with the original")
	}
	if c.NumQubits() != 2 {
		t.Error("mutating the clone must not change the original")
	}
}
