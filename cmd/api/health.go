package main

import "net/http"

const version = "0.1.0"

// @Summary		Health check
// @Description	returns the status of the service and of the census dataset
// @Tags			Health
// @Produce		json
// @Success		200	{object}	map[string]string
// @Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "available",
		"version": version,
		"dataset": "ok",
	}
	if snap := app.census.Snapshot(r.Context()); !snap.OK() {
		data["dataset"] = loadKind(snap.Err)
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
