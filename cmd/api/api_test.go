package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farxc/painel-ies/internal/census"
	"github.com/farxc/painel-ies/internal/census/dashboard"
	"github.com/farxc/painel-ies/internal/census/query"
	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/farxc/painel-ies/internal/metrics"
	"github.com/farxc/painel-ies/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const fixture = "../../internal/census/load/testdata/censo_ride_df.csv"

// copyFixture writes the census fixture to a temp dir, leaving out the named
// source columns.
func copyFixture(t *testing.T, drop ...string) string {
	t.Helper()
	raw, err := os.ReadFile(fixture)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	header := strings.Split(lines[0], ";")
	skip := make(map[int]bool)
	for i, h := range header {
		for _, d := range drop {
			if h == d {
				skip[i] = true
			}
		}
	}

	var out []string
	for _, line := range lines {
		var kept []string
		for i, cell := range strings.Split(line, ";") {
			if !skip[i] {
				kept = append(kept, cell)
			}
		}
		out = append(out, strings.Join(kept, ";"))
	}

	path := filepath.Join(t.TempDir(), "censo.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0o600))
	return path
}

func newTestApp(t *testing.T, path string) *application {
	t.Helper()
	m := metrics.New()
	svc, err := census.NewService(census.Config{Path: path, Encoding: "utf-8"}, logger.Nop(), census.WithMetrics(m))
	require.NoError(t, err)
	return &application{
		config:    config{corsOrigins: []string{"*"}},
		census:    svc,
		metrics:   m,
		appLogger: logger.Nop(),
	}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, "ok", body["dataset"])

	h = newTestApp(t, filepath.Join(t.TempDir(), "missing.csv")).mount()
	rec = do(t, h, http.MethodGet, "/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NotFound", decode[map[string]string](t, rec)["dataset"])
}

func TestGetDataset(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/dataset")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GetDatasetResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, 5, body.Data.Rows)
	assert.False(t, body.Data.Cached)
	assert.Len(t, body.Data.Hash, 64)
	assert.Contains(t, body.Data.Columns, "Total de Docentes")

	rec = do(t, h, http.MethodGet, "/v1/dataset")
	assert.True(t, decode[GetDatasetResponse](t, rec).Data.Cached)
}

func TestDataEndpoints_LoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		kind    string
		missing []string
		message string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.csv") },
			kind:    "NotFound",
			message: "o arquivo não foi encontrado",
		},
		{
			name:    "missing column",
			path:    func(t *testing.T) string { return copyFixture(t, "QT_DOC_TOTAL") },
			kind:    "SchemaError",
			missing: []string{"QT_DOC_TOTAL"},
			message: "QT_DOC_TOTAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestApp(t, tt.path(t)).mount()

			for _, target := range []string{"/v1/dataset", "/v1/filters", "/v1/metrics", "/v1/preview", "/v1/charts", "/v1/institutions"} {
				rec := do(t, h, http.MethodGet, target)
				require.Equal(t, http.StatusServiceUnavailable, rec.Code, target)

				body := decode[response.ErrorResponse](t, rec)
				assert.Equal(t, tt.kind, body.Kind, target)
				assert.Equal(t, tt.missing, body.Missing, target)
				assert.Contains(t, body.Error, tt.message, target)
			}
		})
	}
}

func TestGetFilters(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/filters?municipio=Formosa")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GetFiltersResponse](t, rec)
	assert.Equal(t, []string{"Brasília", "Formosa", "Luziânia"}, body.Data.Municipalities)
	assert.Equal(t, []string{"Privada", "Pública"}, body.Data.Networks)
}

func TestGetMetrics(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/metrics?organizacao=Todas&rede=P%C3%BAblica&municipio=Bras%C3%ADlia")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GetMetricsResponse](t, rec)
	assert.Empty(t, body.Message)
	assert.Equal(t, 2.0, body.Data.Institutions.Value)
	assert.Equal(t, 3750.0, body.Data.Faculty.Value)
	assert.Equal(t, "3.750", body.Data.Faculty.Display)
	assert.Equal(t, 3900.0, body.Data.TechnicalStaff.Value)

	rec = do(t, h, http.MethodGet, "/v1/metrics?rede=P%C3%BAblica&municipio=Formosa")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[GetMetricsResponse](t, rec)
	assert.Equal(t, dashboard.EmptyMessage, body.Message)
	assert.Equal(t, 0.0, body.Data.Institutions.Value)
}

func TestGetPreview(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/preview?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GetPreviewResponse](t, rec)
	assert.Equal(t, 2, body.Data.Shown)
	assert.Equal(t, 5, body.Data.Filtered)
	assert.Len(t, body.Data.Rows, 2)

	rec = do(t, h, http.MethodGet, "/v1/preview?limit=abc")
	assert.Equal(t, 5, decode[GetPreviewResponse](t, rec).Data.Shown)
}

func TestGetCharts(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/charts")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GetChartsResponse](t, rec)
	assert.Len(t, body.Data, len(dashboard.ChartIDs()))
	assert.Empty(t, body.Warnings)

	rec = do(t, h, http.MethodGet, "/v1/charts?municipio=Formosa&rede=P%C3%BAblica")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[GetChartsResponse](t, rec)
	assert.Empty(t, body.Data)
	assert.Equal(t, dashboard.EmptyMessage, body.Message)
}

func TestGetChart(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/charts/"+dashboard.ChartIESByMunicipality)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GetChartResponse](t, rec)
	assert.Equal(t, types.ChartBar, body.Data.Kind)
	assert.Equal(t, []string{"Brasília", "Formosa", "Luziânia"}, body.Data.Categories())

	rec = do(t, h, http.MethodGet, "/v1/charts/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/charts/"+dashboard.ChartCategories+"?municipio=Formosa&rede=P%C3%BAblica")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[response.ErrorResponse](t, rec).Error, "Categoria Administrativa")
}

func TestGetChartPNG(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/charts/"+dashboard.ChartFacultyByDegree+"/png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, h, http.MethodGet, "/v1/charts/nope/png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInstitutions(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/institutions?municipio=Bras%C3%ADlia")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[GetInstitutionsResponse](t, rec)
	require.Len(t, body.Data, 3)
	assert.Equal(t, "CENTRO UNIVERSITÁRIO DE BRASÍLIA", body.Data[0].Name)

	rec = do(t, h, http.MethodGet, "/v1/institutions?municipio=Nenhum")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[GetInstitutionsResponse](t, rec)
	assert.Empty(t, body.Data)
	assert.Equal(t, dashboard.EmptyMessage, body.Message)
}

func TestExportInstitutions(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/institutions/export?rede=Privada")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), exportFilename)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("IES")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestLoadHistory_Disabled(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/v1/loads/history")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decode[response.ErrorResponse](t, rec).Error, "DB_ADDR")
}

func TestReloadDataset(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	do(t, h, http.MethodGet, "/v1/dataset")
	rec := do(t, h, http.MethodPost, "/v1/dataset/reload")
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/dataset")
	assert.False(t, decode[GetDatasetResponse](t, rec).Data.Cached)
}

func TestDashboardPage(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/?rede=P%C3%BAblica&municipio=Bras%C3%ADlia")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	page := rec.Body.String()
	assert.Contains(t, page, "Total de IES")
	assert.Contains(t, page, "3.750")
	assert.Contains(t, page, "/v1/charts/"+dashboard.ChartIESByMunicipality+"/png?")
	assert.Contains(t, page, "UNIVERSIDADE DE BRASÍLIA")
	assert.NotContains(t, page, "FACULDADE DE LUZIÂNIA")
}

func TestDashboardPage_NoMatch(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	rec := do(t, h, http.MethodGet, "/?rede=P%C3%BAblica&municipio=Formosa")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhum registro encontrado")
	assert.NotContains(t, rec.Body.String(), "<img")
}

func TestDashboardPage_LoadFailure(t *testing.T) {
	h := newTestApp(t, copyFixture(t, "QT_DOC_TOTAL", "SG_IES")).mount()

	rec := do(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	page := rec.Body.String()
	assert.Contains(t, page, "SchemaError")
	assert.Contains(t, page, "<li>SG_IES</li>")
	assert.Contains(t, page, "<li>QT_DOC_TOTAL</li>")
	assert.NotContains(t, page, "Total de IES")
}

func TestPrometheusEndpoint(t *testing.T) {
	h := newTestApp(t, fixture).mount()

	do(t, h, http.MethodGet, "/v1/health")
	rec := do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `painel_ies_http_requests_total{code="200",route="/v1/health"} 1`)
	assert.Contains(t, rec.Body.String(), "painel_ies_dataset_rows 5")
}

func TestFilterQuery(t *testing.T) {
	assert.Equal(t, "", filterQuery(query.Filter{}))
	assert.Equal(t,
		"municipio=Bras%C3%ADlia&rede=P%C3%BAblica",
		filterQuery(query.Filter{Network: "Pública", Municipality: "Brasília"}))
}
