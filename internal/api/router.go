// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.health)

	// Results
	mux.HandleFunc("GET /results", h.listResults)
	mux.HandleFunc("POST /results", h.createResult)
	mux.HandleFunc("GET /results/{resultID}", h.getResult)

	// Statistics
	mux.HandleFunc("GET /stats/summary", h.getSummary)
	mux.HandleFunc("GET /stats/rules", h.getRuleAccuracy)
	mux.HandleFunc("GET /stats/errors", h.getErrorPatterns)
	mux.HandleFunc("GET /stats/weak", h.getWeakRules)

	// Exercises and sessions
	mux.HandleFunc("GET /exercises", h.listExercises)
	mux.HandleFunc("POST /sessions", h.createSession)

	// Action-style endpoint kept for older clients
	mux.HandleFunc("/api", h.legacy)
}

// NewRouter returns the full handler chain: Logging → CORS → mux.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return Logging(h.logger)(CORS(mux))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
