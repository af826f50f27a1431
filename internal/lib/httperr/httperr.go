package httperr

import (
	"encoding/json"
	"net/http"
)

// Write writes the service's JSON error payload with a human-readable message.
func Write(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}
