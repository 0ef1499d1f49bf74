package main

import (
	"net/http"
	"time"

	"github.com/farxc/painel-ies/internal/census/dashboard"
	"github.com/farxc/painel-ies/internal/census/load"
	"github.com/farxc/painel-ies/internal/census/query"
	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/farxc/painel-ies/internal/response"
)

type DatasetStatus struct {
	ID       string      `json:"id"`
	Source   string      `json:"source"`
	Hash     string      `json:"hash"`
	Rows     int         `json:"rows"`
	Columns  []string    `json:"columns"`
	Extra    []string    `json:"extra_columns,omitempty"`
	Cached   bool        `json:"cached"`
	LoadedAt time.Time   `json:"loaded_at"`
	Report   load.Report `json:"report"`
}

type GetDatasetResponse = response.APIResponse[DatasetStatus]
type GetFiltersResponse = response.APIResponse[types.FilterOptions]
type GetMetricsResponse = response.APIResponse[types.KeyMetrics]
type GetPreviewResponse = response.APIResponse[types.Preview]
type ReloadDatasetResponse = response.APIResponse[any]

// selection is the current dataset narrowed by the request's filters.
type selection struct {
	dataset  *load.Dataset
	view     query.View
	warnings []string
}

// selected loads the dataset and applies the request filters. On failure it
// has already written the response.
func (app *application) selected(w http.ResponseWriter, r *http.Request) (selection, bool) {
	snap := app.census.Snapshot(r.Context())
	if !snap.OK() {
		writeLoadError(w, snap.Err)
		return selection{}, false
	}

	view, warnings, err := query.Apply(snap.Dataset.View(), filterFromRequest(r))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to apply filters: "+err.Error())
		return selection{}, false
	}
	return selection{dataset: snap.Dataset, view: view, warnings: warnings}, true
}

// @Summary		Dataset status
// @Description	Returns the load report of the current census file, or the load error.
// @Tags			Dataset
// @Produce		json
// @Success		200	{object}	GetDatasetResponse
// @Failure		503	{object}	response.ErrorResponse	"Dataset could not be loaded"
// @Router			/dataset [get]
func (app *application) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	snap := app.census.Snapshot(r.Context())
	if !snap.OK() {
		writeLoadError(w, snap.Err)
		return
	}

	ds := snap.Dataset
	extra := ds.Columns.Optional()
	query.SortStrings(extra)

	response := &GetDatasetResponse{
		Success: true,
		Data: DatasetStatus{
			ID:       ds.ID.String(),
			Source:   ds.Source,
			Hash:     ds.Hash,
			Rows:     ds.Rows(),
			Columns:  ds.Frame.Names(),
			Extra:    extra,
			Cached:   snap.Hit,
			LoadedAt: ds.LoadedAt,
			Report:   ds.Report,
		},
		Warnings: ds.Report.Warnings,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Reload dataset
// @Description	Drops the cached table; the next request reads and normalizes the file again.
// @Tags			Dataset
// @Produce		json
// @Success		202	{object}	ReloadDatasetResponse
// @Router			/dataset/reload [post]
func (app *application) handleReloadDataset(w http.ResponseWriter, r *http.Request) {
	app.census.Reload()

	response := &ReloadDatasetResponse{
		Success: true,
		Message: "Dataset cache purged",
	}
	if err := writeJSON(w, http.StatusAccepted, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Filter options
// @Description	Distinct values for each filter, taken from the unfiltered table.
// @Tags			Dashboard
// @Produce		json
// @Success		200	{object}	GetFiltersResponse
// @Failure		503	{object}	response.ErrorResponse
// @Router			/filters [get]
func (app *application) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	snap := app.census.Snapshot(r.Context())
	if !snap.OK() {
		writeLoadError(w, snap.Err)
		return
	}

	response := &GetFiltersResponse{
		Success: true,
		Data:    query.Options(snap.Dataset.View()),
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Key metrics
// @Tags			Dashboard
// @Produce		json
// @Param			organizacao	query		string	false	"Organização Acadêmica"
// @Param			rede		query		string	false	"Tipo de Rede"
// @Param			municipio	query		string	false	"Município"
// @Success		200			{object}	GetMetricsResponse
// @Failure		503			{object}	response.ErrorResponse
// @Router			/metrics [get]
func (app *application) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	sel, ok := app.selected(w, r)
	if !ok {
		return
	}

	response := &GetMetricsResponse{
		Success:  true,
		Data:     dashboard.Metrics(sel.view),
		Warnings: sel.warnings,
	}
	if sel.view.Empty() {
		response.Message = dashboard.EmptyMessage
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Data preview
// @Description	First rows of the filtered table.
// @Tags			Dashboard
// @Produce		json
// @Param			limit	query		int	false	"Rows to show"	default(10)
// @Success		200		{object}	GetPreviewResponse
// @Failure		503		{object}	response.ErrorResponse
// @Router			/preview [get]
func (app *application) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	sel, ok := app.selected(w, r)
	if !ok {
		return
	}

	limit := parseIntOrDefault(r, "limit", dashboard.PreviewLimit)
	response := &GetPreviewResponse{
		Success:  true,
		Data:     dashboard.Preview(sel.view, sel.dataset.Rows(), limit),
		Warnings: sel.warnings,
	}
	if sel.view.Empty() {
		response.Message = dashboard.EmptyMessage
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
