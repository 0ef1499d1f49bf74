package dashboard

import (
	"strconv"

	"github.com/farxc/painel-ies/internal/census/query"
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/go-gota/gota/series"
)

// PreviewLimit is the number of rows shown in the preview table.
const PreviewLimit = 10

func metric(label string, value float64) types.Metric {
	return types.Metric{Label: label, Value: value, Display: FormatCount(value)}
}

// Metrics computes the four headline numbers. A metric whose column is not
// present is 0.
func Metrics(v query.View) types.KeyMetrics {
	var institutions, faculty, municipalities, technical float64
	if !v.Empty() {
		if v.Columns.Has(schema.InstitutionName) {
			institutions = float64(query.CountDistinct(v.Frame, schema.InstitutionName))
		}
		if v.Columns.Has(schema.FacultyTotal) {
			faculty = query.Sum(v.Frame, schema.FacultyTotal)
		}
		if v.Columns.Has(schema.Municipality) {
			municipalities = float64(query.CountDistinct(v.Frame, schema.Municipality))
		}
		if v.Columns.Has(schema.TechnicalTotal) {
			technical = query.Sum(v.Frame, schema.TechnicalTotal)
		}
	}

	return types.KeyMetrics{
		Institutions:   metric("Total de IES", institutions),
		Faculty:        metric("Total de Docentes", faculty),
		Municipalities: metric("Municípios c/ IES", municipalities),
		TechnicalStaff: metric("Total de Técnico-administrativos", technical),
	}
}

// Preview returns the first limit rows of v. total is the row count of the
// unfiltered table.
func Preview(v query.View, total, limit int) types.Preview {
	p := types.Preview{Filtered: v.Rows(), Total: total, Rows: [][]string{}}
	if v.Empty() {
		return p
	}

	n := min(limit, v.Rows())
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	head := v.Frame.Subset(idx)

	p.Columns = head.Names()
	cols := make([][]string, len(p.Columns))
	for c, name := range p.Columns {
		s := head.Col(name)
		if s.Type() == series.Float {
			floats := s.Float()
			cols[c] = make([]string, len(floats))
			for i, f := range floats {
				cols[c][i] = strconv.FormatFloat(f, 'f', -1, 64)
			}
			continue
		}
		cols[c] = s.Records()
		for i, rec := range cols[c] {
			if rec == "NaN" {
				cols[c][i] = ""
			}
		}
	}

	p.Rows = make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(cols))
		for c := range cols {
			row[c] = cols[c][r]
		}
		p.Rows[r] = row
	}
	p.Shown = n
	return p
}
