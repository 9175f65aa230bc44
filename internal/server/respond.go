package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pvekit/scriptport/internal/categories"
	"github.com/pvekit/scriptport/internal/credentials"
	"github.com/pvekit/scriptport/internal/importer"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// fail maps the operation error taxonomy onto HTTP status codes.
func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, importer.ErrInvalidSourceURL):
		status = http.StatusBadRequest
	case errors.Is(err, importer.ErrAuthenticationRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, importer.ErrRepositoryNotFound),
		errors.Is(err, importer.ErrManifestNotFound),
		errors.Is(err, categories.ErrCategoryNotFound),
		errors.Is(err, credentials.ErrCredentialNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, envelope{Success: false, Message: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
