package main

import (
	"bytes"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/farxc/painel-ies/internal/census/dashboard"
	"github.com/farxc/painel-ies/internal/census/load"
	"github.com/farxc/painel-ies/internal/census/query"
	"github.com/farxc/painel-ies/internal/census/types"
)

const pageTitle = "Painel de Instituições de Ensino Superior (RIDE/DF)"

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"count": dashboard.FormatCount,
}).Parse(dashboardHTML))

type chartView struct {
	Chart types.Chart
	Src   template.URL
}

type pageData struct {
	Title        string
	AllFeminine  string
	AllMasculine string
	Error        string
	ErrorKind    string
	Missing      []string
	Board        dashboard.Board
	Charts       []chartView
	ExportURL    template.URL
}

// filterQuery encodes f back into the page's query parameters.
func filterQuery(f query.Filter) string {
	q := url.Values{}
	if f.Organization != "" {
		q.Set(paramOrganization, f.Organization)
	}
	if f.Network != "" {
		q.Set(paramNetwork, f.Network)
	}
	if f.Municipality != "" {
		q.Set(paramMunicipality, f.Municipality)
	}
	return q.Encode()
}

func withQuery(path, rawQuery string) template.URL {
	if rawQuery == "" {
		return template.URL(path)
	}
	return template.URL(path + "?" + rawQuery)
}

func (app *application) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:        pageTitle,
		AllFeminine:  query.AllFeminine,
		AllMasculine: query.AllMasculine,
	}
	status := http.StatusOK

	snap := app.census.Snapshot(r.Context())
	if !snap.OK() {
		status = http.StatusServiceUnavailable
		data.Error = snap.Err.Error()
		data.ErrorKind = loadKind(snap.Err)
		var lerr *load.Error
		if errors.As(snap.Err, &lerr) {
			data.Missing = lerr.Missing
		}
	} else {
		f := filterFromRequest(r)
		board, err := dashboard.Build(snap.Dataset.View(), f)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to build dashboard: "+err.Error())
			return
		}
		data.Board = board

		rawQuery := filterQuery(f)
		for _, c := range board.Charts {
			data.Charts = append(data.Charts, chartView{
				Chart: c,
				Src:   withQuery("/v1/charts/"+url.PathEscape(c.ID)+"/png", rawQuery),
			})
		}
		data.ExportURL = withQuery("/v1/institutions/export", rawQuery)
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		app.appLogger.Error(component, "Failed to render dashboard: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to render dashboard")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		app.appLogger.Warn(component, "Failed to write dashboard: %v", err)
	}
}
