package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/farxc/painel-ies/internal/census/dashboard"
	"github.com/farxc/painel-ies/internal/census/export"
	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/farxc/painel-ies/internal/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "instituicoes_ride_df.xlsx"
)

type GetInstitutionsResponse = response.APIResponse[[]types.DetailRow]

// detailRows builds the detail table for the request. On failure it has
// already written the response.
func (app *application) detailRows(w http.ResponseWriter, r *http.Request) ([]types.DetailRow, []string, bool) {
	sel, ok := app.selected(w, r)
	if !ok {
		return nil, nil, false
	}
	if sel.view.Empty() {
		return []types.DetailRow{}, sel.warnings, true
	}

	rows, err := dashboard.DetailTable(sel.view)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dashboard.ErrUnavailable) {
			status = http.StatusUnprocessableEntity
		}
		writeJSONError(w, status, err.Error())
		return nil, nil, false
	}
	return rows, sel.warnings, true
}

// @Summary		Institution detail table
// @Description	Filtered institutions grouped by year, municipality and identity, with faculty and staff totals.
// @Tags			Institutions
// @Produce		json
// @Param			organizacao	query		string	false	"Organização Acadêmica"
// @Param			rede		query		string	false	"Tipo de Rede"
// @Param			municipio	query		string	false	"Município"
// @Success		200			{object}	GetInstitutionsResponse
// @Failure		422			{object}	response.ErrorResponse
// @Failure		503			{object}	response.ErrorResponse
// @Router			/institutions [get]
func (app *application) handleGetInstitutions(w http.ResponseWriter, r *http.Request) {
	rows, warnings, ok := app.detailRows(w, r)
	if !ok {
		return
	}

	response := &GetInstitutionsResponse{
		Success:  true,
		Data:     rows,
		Warnings: warnings,
	}
	if len(rows) == 0 {
		response.Message = dashboard.EmptyMessage
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Export institution detail table
// @Tags			Institutions
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		422	{object}	response.ErrorResponse
// @Failure		503	{object}	response.ErrorResponse
// @Router			/institutions/export [get]
func (app *application) handleExportInstitutions(w http.ResponseWriter, r *http.Request) {
	rows, _, ok := app.detailRows(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.DetailXLSX(&buf, rows); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to export institutions: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		app.appLogger.Warn(component, "Failed to write export: %v", err)
	}
}
