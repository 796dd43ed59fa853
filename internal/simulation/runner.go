package simulation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qsketch/qsketch/internal/circuit"
	"github.com/qsketch/qsketch/internal/codegen"
)

// RunConfig holds per-run simulation parameters.
type RunConfig struct {
	// Shots is the number of repeated executions; must be positive.
	Shots int

	// Timeout bounds the external call. Zero means no deadline beyond the
	// caller's context.
	Timeout time.Duration

	// Backend selects a registered backend by name; empty means the
	// runner's default.
	Backend string
}

// Runner validates circuits and dispatches them to registered backends. It
// is read-only with respect to circuits, so a run may execute concurrently
// with code generation and with other runs, but the caller must not mutate
// the circuit while a run is in flight.
type Runner struct {
	mu          sync.RWMutex
	backends    map[string]Backend
	defaultName string

	logger *zap.Logger
}

// NewRunner creates a runner. The first registered backend becomes the
// default.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		backends: make(map[string]Backend),
		logger:   logger,
	}
}

// Register makes a backend selectable by name.
func (r *Runner) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.backends) == 0 {
		r.defaultName = b.Name()
	}
	r.backends[b.Name()] = b
}

// Backends returns the registered backend names in sorted order.
func (r *Runner) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Runner) backend(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultName
	}
	b, ok := r.backends[name]
	if !ok {
		return nil, circuit.NewConfigError("unknown backend %q", name)
	}
	return b, nil
}

// Run validates the circuit and parameters, then executes the circuit on
// the selected backend. All parameter and structural problems are reported
// before the backend is contacted. Backend failures and exceeded deadlines
// come back as distinct error kinds with the original cause preserved; the
// runner never retries on its own.
func (r *Runner) Run(ctx context.Context, c *circuit.Circuit, cfg RunConfig) (*Result, error) {
	if cfg.Shots <= 0 {
		return nil, circuit.NewConfigError("shots must be a positive integer, got %d", cfg.Shots)
	}

	backend, err := r.backend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	if c == nil || c.NumQubits() == 0 {
		return nil, circuit.NewValidationError("circuit has no qubits")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.NumQubits() > backend.MaxQubits() {
		return nil, circuit.NewConfigError("circuit has %d qubits but backend %s accepts at most %d",
			c.NumQubits(), backend.Name(), backend.MaxQubits())
	}

	fingerprint, err := codegen.Fingerprint(c)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	r.logger.Info("dispatching run",
		zap.String("backend", backend.Name()),
		zap.Int("shots", cfg.Shots),
		zap.Int("qubits", c.NumQubits()),
		zap.String("fingerprint", fingerprint),
	)

	start := time.Now()
	counts, err := backend.Execute(ctx, c, cfg.Shots)
	elapsed := time.Since(start)
	if err != nil {
		return nil, classify(err, backend.Name(), elapsed)
	}

	r.logger.Info("run completed",
		zap.String("backend", backend.Name()),
		zap.Duration("elapsed", elapsed),
		zap.Int("outcomes", len(counts)),
	)

	return &Result{
		Counts:      counts,
		Shots:       cfg.Shots,
		Backend:     backend.Name(),
		Fingerprint: fingerprint,
		Elapsed:     elapsed,
	}, nil
}

// classify maps an execution failure to a domain error kind. Deadline
// overruns become timeout errors; everything else from the backend is a
// backend error. Errors that already carry a kind pass through untouched.
func classify(err error, backendName string, elapsed time.Duration) error {
	var de *circuit.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return circuit.NewTimeoutError(err, "backend %s exceeded the run deadline after %v", backendName, elapsed)
	}
	return circuit.NewBackendError(err, "backend %s failed", backendName)
}
