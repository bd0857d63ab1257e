// Package httpapi: REST API движка заказов на chi.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/boundary"
)

const maxBodyBytes = 1 << 20

// Envelope: формат всех ответов API.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	// Error заполняется только в режиме разработки.
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, Envelope{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Success: false, Message: message})
}

func writeProblem(w http.ResponseWriter, p boundary.Problem) {
	writeJSON(w, p.HTTP, Envelope{Success: false, Message: p.Message, Error: p.Detail})
}

// decodeBody читает JSON-тело запроса. Пустое тело допустимо, если allowEmpty.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
