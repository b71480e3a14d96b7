package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/streamhub/backend/internal/apperr"
)

// Response is the single envelope every endpoint uses, success and failure
// alike: {status, data?, message, success}.
type Response struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func respondJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Status:  status,
		Data:    data,
		Message: message,
		Success: true,
	})
}

// respondError maps err through the apperr taxonomy. Internal detail stays in
// the server log; the client only ever sees the constructor message.
func respondError(w http.ResponseWriter, component string, err error) {
	appErr := apperr.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Printf("ERROR [%s] %v", component, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(Response{
		Status:  appErr.Status,
		Message: appErr.Message,
		Success: false,
	})
}
