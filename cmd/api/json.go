package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/farxc/painel-ies/internal/census/load"
	"github.com/farxc/painel-ies/internal/response"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message})
}

// writeLoadError answers 503 with the descriptive load failure.
func writeLoadError(w http.ResponseWriter, err error) error {
	resp := &response.ErrorResponse{
		Error: err.Error(),
		Kind:  loadKind(err),
	}
	var lerr *load.Error
	if errors.As(err, &lerr) {
		resp.Missing = lerr.Missing
	}
	return writeJSON(w, http.StatusServiceUnavailable, resp)
}
