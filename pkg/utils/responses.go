package utils

import (
	"encoding/json"
	"net/http"
)

// Response - envelope semua endpoint
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes the envelope; status follows the HTTP code.
func ResponseJSON(w http.ResponseWriter, code int, message string, data, errs any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{
		Status:  code < http.StatusBadRequest,
		Message: message,
		Data:    data,
		Errors:  errs,
	})
}

func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, message, data, nil)
}

func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, message, data, nil)
}

// ResponseError - errs hanya untuk detail validasi per field
func ResponseError(w http.ResponseWriter, code int, message string, errs any) {
	ResponseJSON(w, code, message, nil, errs)
}
