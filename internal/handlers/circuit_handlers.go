package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qsketch/qsketch/internal/circuit"
	"github.com/qsketch/qsketch/internal/codegen"
	"github.com/qsketch/qsketch/internal/config"
	"github.com/qsketch/qsketch/internal/simulation"
	"github.com/qsketch/qsketch/internal/store"
	"github.com/qsketch/qsketch/internal/workspace"
)

// CircuitHandler manages circuit-related HTTP requests
type CircuitHandler struct {
	workspace *workspace.Manager
	runner    *simulation.Runner
	runCfg    config.RunConfig
}

// NewCircuitHandler creates a handler over a workspace and a runner
func NewCircuitHandler(ws *workspace.Manager, runner *simulation.Runner, runCfg config.RunConfig) *CircuitHandler {
	return &CircuitHandler{
		workspace: ws,
		runner:    runner,
		runCfg:    runCfg,
	}
}

// CreateRequest is the body of POST /api/v1/circuits
type CreateRequest struct {
	NumQubits int `json:"num_qubits"`
}

// AddGateRequest is the body of POST /api/v1/circuits/{id}/gates
type AddGateRequest struct {
	Kind     string    `json:"kind"`
	Qubits   []int     `json:"qubits"`
	Params   []float64 `json:"params,omitempty"`
	Position int       `json:"position"`
}

// RunRequest is the body of POST /api/v1/circuits/{id}/run
type RunRequest struct {
	Shots          int    `json:"shots"`
	Backend        string `json:"backend,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// FileRequest is the body of the save and load endpoints
type FileRequest struct {
	Path string `json:"path"`
}

// CircuitResponse is the serialized view of a circuit
type CircuitResponse struct {
	CircuitID        string              `json:"circuit_id"`
	NumQubits        int                 `json:"num_qubits"`
	NumClassicalBits int                 `json:"num_classical_bits"`
	Depth            int                 `json:"depth"`
	Placements       []circuit.Placement `json:"placements"`
}

// CircuitsHandler handles the /api/v1/circuits collection:
// POST creates a circuit, GET lists circuit ids
func (h *CircuitHandler) CircuitsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req CreateRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}
		id, err := h.workspace.Create(req.NumQubits)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]string{"circuit_id": id.String()})

	case http.MethodGet:
		ids := h.workspace.IDs()
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, id.String())
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"circuits": out})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// LoadHandler handles POST /api/v1/circuits/load
// Loads a saved circuit file into the workspace
func (h *CircuitHandler) LoadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := store.Load(req.Path)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	id := h.workspace.Import(c)
	respondWithJSON(w, http.StatusCreated, map[string]string{"circuit_id": id.String()})
}

// CircuitByIDHandler routes /api/v1/circuits/{id} and its sub-resources
func (h *CircuitHandler) CircuitByIDHandler(w http.ResponseWriter, r *http.Request) {
	// Path shape: /api/v1/circuits/{id}[/{resource}[/{arg}]]
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 4 {
		respondWithError(w, http.StatusBadRequest, "Invalid URL format")
		return
	}

	id, err := uuid.Parse(parts[3])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid circuit ID")
		return
	}

	if len(parts) == 4 {
		switch r.Method {
		case http.MethodGet:
			h.getCircuit(w, id)
		case http.MethodDelete:
			h.deleteCircuit(w, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	resource := parts[4]
	arg := ""
	if len(parts) > 5 {
		arg = parts[5]
	}

	switch resource {
	case "qubits":
		h.qubits(w, r, id, arg)
	case "gates":
		h.gates(w, r, id, arg)
	case "undo":
		h.undo(w, r, id)
	case "redo":
		h.redo(w, r, id)
	case "code":
		h.code(w, r, id)
	case "run":
		h.run(w, r, id)
	case "save":
		h.save(w, r, id)
	default:
		respondWithError(w, http.StatusNotFound, "Unknown resource "+resource)
	}
}

func (h *CircuitHandler) getCircuit(w http.ResponseWriter, id uuid.UUID) {
	c, err := h.workspace.Circuit(id)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, CircuitResponse{
		CircuitID:        id.String(),
		NumQubits:        c.NumQubits(),
		NumClassicalBits: c.NumClassicalBits(),
		Depth:            c.Depth(),
		Placements:       c.Placements(),
	})
}

func (h *CircuitHandler) deleteCircuit(w http.ResponseWriter, id uuid.UUID) {
	if err := h.workspace.Remove(id); err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Circuit deleted"})
}

// qubits handles POST .../qubits and DELETE .../qubits/{index}
func (h *CircuitHandler) qubits(w http.ResponseWriter, r *http.Request, id uuid.UUID, arg string) {
	switch r.Method {
	case http.MethodPost:
		ev, err := h.workspace.Apply(id, circuit.AddQubitCommand{})
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]int{"qubit": ev.Qubit})

	case http.MethodDelete:
		index, err := strconv.Atoi(arg)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid qubit index")
			return
		}
		if _, err := h.workspace.Apply(id, circuit.RemoveQubitCommand{Index: index}); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Qubit removed"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// gates handles POST .../gates and DELETE .../gates/{placementID}
func (h *CircuitHandler) gates(w http.ResponseWriter, r *http.Request, id uuid.UUID, arg string) {
	switch r.Method {
	case http.MethodPost:
		var req AddGateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		cmd := circuit.AddGateCommand{
			Kind:     circuit.GateKind(strings.ToUpper(req.Kind)),
			Qubits:   req.Qubits,
			Params:   req.Params,
			Position: req.Position,
		}
		ev, err := h.workspace.Apply(id, cmd)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithJSON(w, http.StatusCreated, ev.Placement)

	case http.MethodDelete:
		placementID, err := uuid.Parse(arg)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid placement ID")
			return
		}
		if _, err := h.workspace.Apply(id, circuit.RemoveGateCommand{ID: placementID}); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Gate removed"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CircuitHandler) undo(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.workspace.Undo(id); err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Undone"})
}

func (h *CircuitHandler) redo(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.workspace.Redo(id); err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Redone"})
}

// code handles GET .../code?lang=qasm|qiskit
func (h *CircuitHandler) code(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c, err := h.workspace.Circuit(id)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "qiskit"
	}

	var code string
	switch lang {
	case "qasm":
		code, err = codegen.QASM(c)
	case "qiskit":
		code, err = codegen.QiskitScript(c)
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown language "+lang)
		return
	}
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	fingerprint, err := codegen.Fingerprint(c)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"language":    lang,
		"code":        code,
		"fingerprint": fingerprint,
	})
}

// run handles POST .../run
func (h *CircuitHandler) run(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := RunRequest{Shots: h.runCfg.DefaultShots}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if h.runCfg.MaxShots > 0 && req.Shots > h.runCfg.MaxShots {
		respondWithError(w, http.StatusBadRequest,
			"shots exceeds the configured maximum of "+strconv.Itoa(h.runCfg.MaxShots))
		return
	}

	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	if req.TimeoutSeconds <= 0 {
		timeout = time.Duration(h.runCfg.TimeoutSeconds) * time.Second
	}

	c, err := h.workspace.Circuit(id)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	result, err := h.runner.Run(r.Context(), c, simulation.RunConfig{
		Shots:   req.Shots,
		Timeout: timeout,
		Backend: req.Backend,
	})
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"result":        result,
		"probabilities": result.Counts.Probabilities(),
	})
}

// save handles POST .../save
func (h *CircuitHandler) save(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.workspace.Circuit(id)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	if err := store.Save(c, req.Path); err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Circuit saved", "path": req.Path})
}
