package query

import (
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/farxc/painel-ies/internal/census/types"
)

// Options lists the selectable values of each filter dimension. A dimension
// whose column is missing yields no options.
func Options(v View) types.FilterOptions {
	opts := types.FilterOptions{}
	if v.Empty() {
		return opts
	}
	if v.Columns.Has(schema.Organization) {
		opts.Organizations = Distinct(v.Frame, schema.Organization)
	}
	if v.Columns.Has(schema.Network) {
		opts.Networks = Distinct(v.Frame, schema.Network)
	}
	if v.Columns.Has(schema.Municipality) {
		opts.Municipalities = Distinct(v.Frame, schema.Municipality)
	}
	return opts
}
