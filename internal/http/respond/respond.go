package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes an arbitrary success payload. Handlers include "success":true
// in their payload types so the wire contract stays uniform.
func JSON(w http.ResponseWriter, status int, payload any) {
	write(w, status, payload)
}

// Error writes the shared failure envelope.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]any{"success": false, "error": message})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", slog.Any("error", err))
	}
}
