package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/farxc/painel-ies/internal/census/dashboard"
	"github.com/farxc/painel-ies/internal/census/plot"
	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/farxc/painel-ies/internal/response"
	"github.com/go-chi/chi/v5"
)

type GetChartsResponse = response.APIResponse[[]types.Chart]
type GetChartResponse = response.APIResponse[types.Chart]

func warningMessages(ws []dashboard.Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Message
	}
	return out
}

// writeChartError maps chart failures to a status: unknown id is 404, a chart
// the filtered data cannot support is 422.
func writeChartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrUnknownChart):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrUnavailable), errors.Is(err, plot.ErrNoData):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// @Summary		All charts
// @Description	Builds every chart over the filtered table; charts that cannot be built are reported as warnings.
// @Tags			Charts
// @Produce		json
// @Param			organizacao	query		string	false	"Organização Acadêmica"
// @Param			rede		query		string	false	"Tipo de Rede"
// @Param			municipio	query		string	false	"Município"
// @Success		200			{object}	GetChartsResponse
// @Failure		503			{object}	response.ErrorResponse
// @Router			/charts [get]
func (app *application) handleGetCharts(w http.ResponseWriter, r *http.Request) {
	sel, ok := app.selected(w, r)
	if !ok {
		return
	}

	response := &GetChartsResponse{
		Success:  true,
		Data:     []types.Chart{},
		Warnings: sel.warnings,
	}
	if sel.view.Empty() {
		response.Message = dashboard.EmptyMessage
	} else {
		charts, warnings := dashboard.Charts(sel.view)
		response.Data = charts
		response.Warnings = append(response.Warnings, warningMessages(warnings)...)
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		One chart
// @Tags			Charts
// @Produce		json
// @Param			id	path		string	true	"Chart id"
// @Success		200	{object}	GetChartResponse
// @Failure		404	{object}	response.ErrorResponse	"Unknown chart"
// @Failure		422	{object}	response.ErrorResponse	"Chart unavailable for the selection"
// @Failure		503	{object}	response.ErrorResponse
// @Router			/charts/{id} [get]
func (app *application) handleGetChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := app.selected(w, r)
	if !ok {
		return
	}

	chart, err := dashboard.Chart(sel.view, chi.URLParam(r, "id"))
	if err != nil {
		writeChartError(w, err)
		return
	}

	response := &GetChartResponse{
		Success:  true,
		Data:     chart,
		Warnings: sel.warnings,
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Chart image
// @Tags			Charts
// @Produce		png
// @Param			id	path	string	true	"Chart id"
// @Success		200
// @Failure		404	{object}	response.ErrorResponse
// @Failure		422	{object}	response.ErrorResponse
// @Router			/charts/{id}/png [get]
func (app *application) handleGetChartPNG(w http.ResponseWriter, r *http.Request) {
	sel, ok := app.selected(w, r)
	if !ok {
		return
	}

	chart, err := dashboard.Chart(sel.view, chi.URLParam(r, "id"))
	if err != nil {
		writeChartError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := plot.Render(chart, &buf); err != nil {
		writeChartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		app.appLogger.Warn(component, "Failed to write chart %s: %v", chart.ID, err)
	}
}
