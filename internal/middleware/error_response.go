package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func isAPI(r *http.Request) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}

// writeError answers API paths with JSON and pages with plain text.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if !isAPI(r) {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Success: false, Message: message})
}
