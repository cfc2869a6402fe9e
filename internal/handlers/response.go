package handlers

import (
	"encoding/json"
	"net/http"
)

// Error codes used across the API. The HTTP status is implied by the code:
// 400, 404, 500 respectively.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeDatabaseError   = "DATABASE_ERROR"
)

// ErrorBody is the error half of the uniform response envelope.
type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeData(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    payload,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error": ErrorBody{
			Message: message,
			Code:    code,
			Fields:  fields,
		},
	})
}

func validationError(w http.ResponseWriter, message string, fields map[string]string) {
	writeError(w, http.StatusBadRequest, CodeValidationError, message, fields)
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, CodeNotFound, message, nil)
}

func databaseError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, CodeDatabaseError, message, nil)
}
