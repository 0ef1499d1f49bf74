package query

import (
	"fmt"

	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Sentinel selections meaning "no filter" on a dimension.
const (
	AllFeminine  = "Todas"
	AllMasculine = "Todos"
)

// View is an immutable table plus the set of columns it carries. Filtering
// returns a new View; the source frame is never modified.
type View struct {
	Frame   dataframe.DataFrame
	Columns schema.Columns
}

func NewView(df dataframe.DataFrame, columns schema.Columns) View {
	if columns == nil {
		columns = schema.NewColumns(df.Names())
	}
	return View{Frame: df, Columns: columns}
}

func (v View) Rows() int {
	if len(v.Columns) == 0 {
		return 0
	}
	return v.Frame.Nrow()
}

func (v View) Empty() bool {
	return v.Rows() == 0
}

// Filter selects rows by equality on the three dashboard dimensions. Empty
// fields and the Todas/Todos sentinels leave a dimension unfiltered.
type Filter struct {
	Organization string `json:"organization,omitempty"`
	Network      string `json:"network,omitempty"`
	Municipality string `json:"municipality,omitempty"`
}

type criterion struct {
	column string
	value  string
}

func active(value string) bool {
	return value != "" && value != AllFeminine && value != AllMasculine
}

func (f Filter) criteria() []criterion {
	var out []criterion
	if active(f.Organization) {
		out = append(out, criterion{schema.Organization, f.Organization})
	}
	if active(f.Network) {
		out = append(out, criterion{schema.Network, f.Network})
	}
	if active(f.Municipality) {
		out = append(out, criterion{schema.Municipality, f.Municipality})
	}
	return out
}

func (f Filter) IsZero() bool {
	return len(f.criteria()) == 0
}

// Apply returns the rows of v matching every active criterion. A criterion on
// a column the view does not carry is skipped and reported as a warning.
func Apply(v View, f Filter) (View, []string, error) {
	var warnings []string
	df := v.Frame

	for _, c := range f.criteria() {
		if !v.Columns.Has(c.column) {
			warnings = append(warnings, fmt.Sprintf("Coluna '%s' não disponível para filtragem.", c.column))
			continue
		}

		// Filters passed in a single call are OR-ed by gota, so each
		// criterion narrows the previous result.
		df = df.Filter(dataframe.F{
			Colname:    c.column,
			Comparator: series.Eq,
			Comparando: c.value,
		})
		if df.Error() != nil {
			return View{}, warnings, fmt.Errorf("failed to filter by %s: %w", c.column, df.Error())
		}
	}

	return View{Frame: df, Columns: v.Columns}, warnings, nil
}
