package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/qsketch/qsketch/internal/circuit"
)

// HomeHandler handles requests to the root path
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	response := map[string]string{
		"message": "Welcome to the qsketch circuit API",
		"version": "1.0.0",
		"status":  "running",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HealthHandler handles health check requests
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "qsketch-api",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(health)
}

// GateCatalogHandler handles GET /api/v1/gates
// Lists the supported gate kinds with arity, parameter count and description
func GateCatalogHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"gates": circuit.Catalog(),
	})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// statusForError maps a domain error kind to an HTTP status code.
func statusForError(err error) int {
	switch {
	case circuit.IsKind(err, circuit.KindValidation), circuit.IsKind(err, circuit.KindConfig):
		return http.StatusBadRequest
	case circuit.IsKind(err, circuit.KindNotFound):
		return http.StatusNotFound
	case circuit.IsKind(err, circuit.KindReference):
		return http.StatusConflict
	case circuit.IsKind(err, circuit.KindBackend):
		return http.StatusBadGateway
	case circuit.IsKind(err, circuit.KindTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
