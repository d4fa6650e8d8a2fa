package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrors writes an {"errors": [...]} body.
func WriteErrors(w http.ResponseWriter, statusCode int, body APIErrors) {
	if body.Errors == nil {
		body.Errors = []string{}
	}
	WriteJSON(w, statusCode, body)
}

// WriteError writes a single-message error body.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteErrors(w, statusCode, ErrorsFromMessages(message))
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
