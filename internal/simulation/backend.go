// Package simulation executes circuits on pluggable backends and shapes the
// outcomes into counts and probabilities. Backends are opaque: a local
// statevector simulator, a remote Aer service, or hardware all sit behind
// the same contract.
package simulation

import (
	"context"

	"github.com/qsketch/qsketch/internal/circuit"
)

// Backend executes circuits. Execute must honor ctx cancellation and
// deadline; it may block for the duration of the run. Implementations must
// not mutate the circuit, so runs are safely retriable.
type Backend interface {
	// Name identifies the backend for selection and result metadata.
	Name() string

	// MaxQubits returns the widest circuit the backend accepts.
	MaxQubits() int

	// IsSimulator reports whether this is a simulator rather than hardware.
	IsSimulator() bool

	// Execute runs the circuit for the given number of shots and returns
	// outcome counts.
	Execute(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error)
}
