package main

import (
	"net/http"
	"strconv"

	"github.com/farxc/painel-ies/internal/census/load"
	"github.com/farxc/painel-ies/internal/census/query"
)

// Query parameters shared by the page and the data endpoints.
const (
	paramOrganization = "organizacao"
	paramNetwork      = "rede"
	paramMunicipality = "municipio"
)

func filterFromRequest(r *http.Request) query.Filter {
	q := r.URL.Query()
	return query.Filter{
		Organization: q.Get(paramOrganization),
		Network:      q.Get(paramNetwork),
		Municipality: q.Get(paramMunicipality),
	}
}

// parseIntOrDefault returns the positive integer in param, or def.
func parseIntOrDefault(r *http.Request, param string, def int) int {
	v := r.URL.Query().Get(param)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func loadKind(err error) string {
	return load.KindOf(err).String()
}
