package main

import (
	"net/http"

	"github.com/farxc/painel-ies/internal/response"
	"github.com/farxc/painel-ies/internal/store"
)

type GetLoadHistoryResponse = response.APIResponse[[]store.LoadHistory]

// @Summary		Get load history
// @Description	Get a list of the latest dataset load attempts.
// @Tags			Dataset
// @Produce		json
// @Param			limit	query		int						false	"Limit the number of results"	default(10)
// @Success		200		{object}	GetLoadHistoryResponse	"Successfully retrieved latest load records"
// @Failure		500		{object}	response.ErrorResponse	"Failed to get load history"
// @Failure		503		{object}	response.ErrorResponse	"Persistence disabled"
// @Router			/loads/history [get]
func (app *application) handleGetLoadHistory(w http.ResponseWriter, r *http.Request) {
	if app.store == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "load history is disabled: DB_ADDR is not configured")
		return
	}

	limit := parseIntOrDefault(r, "limit", 10)

	ctx := r.Context()
	data, err := app.store.LoadHistory.GetLatest(ctx, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get load history: "+err.Error())
		return
	}

	response := &GetLoadHistoryResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved latest load records",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
