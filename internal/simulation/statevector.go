package simulation

import (
	"context"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/qsketch/qsketch/internal/circuit"
)

// stateVector holds the amplitudes of an n-qubit register. Basis state i has
// qubit q set when bit q of i is set.
type stateVector struct {
	amps      []complex128
	numQubits int
}

func newStateVector(numQubits int) *stateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &stateVector{amps: amps, numQubits: numQubits}
}

// apply applies a single placement to the state. Measurements are skipped;
// sampling happens once at the end of the run.
func (s *stateVector) apply(p circuit.Placement) {
	switch p.Kind {
	case circuit.GateH:
		s.applyH(p.Qubits[0])
	case circuit.GateX:
		s.applyX(p.Qubits[0])
	case circuit.GateY:
		s.applyY(p.Qubits[0])
	case circuit.GateZ:
		s.applyPhaseFlip(p.Qubits[0], -1)
	case circuit.GateS:
		s.applyPhaseFlip(p.Qubits[0], 1i)
	case circuit.GateT:
		s.applyPhaseFlip(p.Qubits[0], cmplx.Exp(complex(0, math.Pi/4)))
	case circuit.GateRX:
		s.applyRX(p.Qubits[0], p.Params[0])
	case circuit.GateRY:
		s.applyRY(p.Qubits[0], p.Params[0])
	case circuit.GateRZ:
		s.applyRZ(p.Qubits[0], p.Params[0])
	case circuit.GateCX:
		s.applyCX(p.Qubits[0], p.Qubits[1])
	case circuit.GateCY:
		s.applyCY(p.Qubits[0], p.Qubits[1])
	case circuit.GateCZ:
		s.applyCZ(p.Qubits[0], p.Qubits[1])
	case circuit.GateSwap:
		s.applySwap(p.Qubits[0], p.Qubits[1])
	case circuit.GateCCX:
		s.applyCCX(p.Qubits[0], p.Qubits[1], p.Qubits[2])
	case circuit.GateMeasure:
	}
}

func (s *stateVector) applyH(q int) {
	factor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << q
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = factor * (s.amps[i] + s.amps[j])
			next[j] = factor * (s.amps[i] - s.amps[j])
		}
	}
	s.amps = next
}

func (s *stateVector) applyX(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *stateVector) applyY(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = -1i*s.amps[j], 1i*s.amps[i]
		}
	}
}

// applyPhaseFlip multiplies the |1> amplitude of qubit q by factor. Z, S and
// T are all diagonal phase gates.
func (s *stateVector) applyPhaseFlip(q int, factor complex128) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] *= factor
		}
	}
}

func (s *stateVector) applyRX(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = c*s.amps[i] + js*s.amps[j]
			next[j] = js*s.amps[i] + c*s.amps[j]
		}
	}
	s.amps = next
}

func (s *stateVector) applyRY(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = c*s.amps[i] - sn*s.amps[j]
			next[j] = sn*s.amps[i] + c*s.amps[j]
		}
	}
	s.amps = next
}

func (s *stateVector) applyRZ(q int, theta float64) {
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] *= phase
		} else {
			s.amps[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *stateVector) applyCX(control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *stateVector) applyCY(control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.amps[i], s.amps[j] = -1i*s.amps[j], 1i*s.amps[i]
		}
	}
}

func (s *stateVector) applyCZ(control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.amps {
		if i&cBit != 0 && i&tBit != 0 {
			s.amps[i] *= -1
		}
	}
}

func (s *stateVector) applySwap(q1, q2 int) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range s.amps {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *stateVector) applyCCX(control1, control2, target int) {
	c1 := 1 << control1
	c2 := 1 << control2
	tBit := 1 << target
	for i := range s.amps {
		if i&c1 != 0 && i&c2 != 0 && i&tBit == 0 {
			j := i | tBit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// probabilities returns the measurement probability of every basis state.
func (s *stateVector) probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// DefaultMaxQubits bounds the local simulator; the state vector doubles with
// every qubit, so 20 qubits is already an 8 MiB register.
const DefaultMaxQubits = 20

// LocalBackend is an in-process statevector simulator. It applies the
// circuit's placements in execution order and samples measurement outcomes
// from the final state.
type LocalBackend struct {
	maxQubits int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocalBackend creates a local simulator with a time-seeded sampler.
func NewLocalBackend(maxQubits int) *LocalBackend {
	return NewSeededLocalBackend(maxQubits, time.Now().UnixNano())
}

// NewSeededLocalBackend creates a local simulator with a fixed sampling
// seed, for reproducible tests.
func NewSeededLocalBackend(maxQubits int, seed int64) *LocalBackend {
	if maxQubits <= 0 || maxQubits > DefaultMaxQubits {
		maxQubits = DefaultMaxQubits
	}
	return &LocalBackend{
		maxQubits: maxQubits,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (b *LocalBackend) Name() string { return "local_statevector" }

func (b *LocalBackend) MaxQubits() int { return b.maxQubits }

func (b *LocalBackend) IsSimulator() bool { return true }

// Execute simulates the circuit and samples shots outcomes. Outcomes cover
// the measured qubits; a circuit without explicit measurements is sampled
// over the full register.
func (b *LocalBackend) Execute(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := newStateVector(c.NumQubits())
	for _, p := range c.Sorted() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state.apply(p)
	}

	measured := c.MeasuredQubits()
	if len(measured) == 0 {
		measured = make([]int, c.NumQubits())
		for i := range measured {
			measured[i] = i
		}
	}
	sort.Ints(measured)

	probs := state.probabilities()

	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(Counts)
	for shot := 0; shot < shots; shot++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		basis := sample(probs, b.rng.Float64())
		counts[outcomeString(basis, measured)]++
	}
	return counts, nil
}

// sample maps a uniform draw in [0,1) onto the basis-state distribution.
func sample(probs []float64, draw float64) int {
	acc := 0.0
	for i, p := range probs {
		acc += p
		if draw < acc {
			return i
		}
	}
	return len(probs) - 1
}

// outcomeString renders the measured bits of a basis state, qubit 0
// rightmost (Qiskit bit order).
func outcomeString(basis int, measured []int) string {
	var sb strings.Builder
	for i := len(measured) - 1; i >= 0; i-- {
		if basis&(1<<measured[i]) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
