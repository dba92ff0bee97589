package handlers

import "net/http"

// Health reports process liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Preflight backs the explicit OPTIONS routes. The CORS middleware answers
// the probe before this runs; the empty 200 here is the fallback.
func Preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
