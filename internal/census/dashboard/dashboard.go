// Package dashboard builds the widgets of the census panel from a filtered
// view: headline metrics, a preview, seven charts and the detail table. Each
// widget checks its own columns, so one missing column only removes the
// widgets that need it.
package dashboard

import (
	"errors"

	"github.com/farxc/painel-ies/internal/census/converter"
	"github.com/farxc/painel-ies/internal/census/query"
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/farxc/painel-ies/internal/census/types"
)

// EmptyMessage is shown instead of the widgets when no row matches.
const EmptyMessage = "Nenhum registro encontrado para os filtros selecionados. Por favor, ajuste os filtros na barra lateral."

const WidgetDetail = "tabela-detalhada"

// DetailGroupColumns are the keys of the detail table, in output order.
var DetailGroupColumns = []string{
	schema.CensusYear,
	schema.Municipality,
	schema.InstitutionName,
	schema.InstitutionAcronym,
	schema.Organization,
	schema.Network,
	schema.Category,
}

// DetailMeasures are summed per detail row.
var DetailMeasures = []string{schema.FacultyTotal, schema.TechnicalTotal}

type Warning struct {
	Widget  string `json:"widget"`
	Message string `json:"message"`
}

func warningFor(widget string, err error) Warning {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return Warning{Widget: ue.Widget, Message: ue.Message}
	}
	return Warning{Widget: widget, Message: err.Error()}
}

// DetailTable groups v by DetailGroupColumns and sums DetailMeasures. Rows
// with an empty key component are kept.
func DetailTable(v query.View) ([]types.DetailRow, error) {
	if v.Empty() || !v.Columns.Has(append(append([]string{}, DetailGroupColumns...), DetailMeasures...)...) {
		return nil, &UnavailableError{
			Widget:  WidgetDetail,
			Message: "Não foi possível gerar a 'Tabela Detalhada das IES': Colunas essenciais ausentes ou dados filtrados vazios para agrupamento.",
		}
	}

	grouped, err := query.GroupSum(v.Frame, DetailGroupColumns, DetailMeasures, true)
	if err != nil {
		return nil, err
	}

	return converter.DfToDetailRows(grouped), nil
}

// Board is every widget of the panel for one filter selection.
type Board struct {
	Filter   query.Filter        `json:"filter"`
	Options  types.FilterOptions `json:"options"`
	Message  string              `json:"message,omitempty"`
	Metrics  types.KeyMetrics    `json:"metrics"`
	Preview  types.Preview       `json:"preview"`
	Charts   []types.Chart       `json:"charts"`
	Detail   []types.DetailRow   `json:"detail"`
	Warnings []Warning           `json:"warnings,omitempty"`
}

// Build filters source by f and assembles the board. Filter options always
// come from the unfiltered source.
func Build(source query.View, f query.Filter) (Board, error) {
	b := Board{Filter: f, Options: query.Options(source)}

	view, filterWarnings, err := query.Apply(source, f)
	if err != nil {
		return b, err
	}
	for _, w := range filterWarnings {
		b.Warnings = append(b.Warnings, Warning{Widget: "filtros", Message: w})
	}

	b.Preview = Preview(view, source.Rows(), PreviewLimit)
	b.Metrics = Metrics(view)
	if view.Empty() {
		b.Message = EmptyMessage
		return b, nil
	}

	charts, chartWarnings := Charts(view)
	b.Charts = charts
	b.Warnings = append(b.Warnings, chartWarnings...)

	detail, err := DetailTable(view)
	if err != nil {
		b.Warnings = append(b.Warnings, warningFor(WidgetDetail, err))
	}
	b.Detail = detail
	return b, nil
}
