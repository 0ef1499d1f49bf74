package dashboard

import (
	"errors"
	"fmt"

	"github.com/farxc/painel-ies/internal/census/query"
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/go-gota/gota/dataframe"
)

const (
	ChartIESByMunicipality     = "ies-por-municipio"
	ChartOrganizations         = "organizacao-academica"
	ChartTechnicalByMaintainer = "tecnicos-por-mantenedora"
	ChartFacultyBySex          = "docentes-por-sexo"
	ChartCategories            = "categoria-administrativa"
	ChartFacultyByDegree       = "docentes-por-formacao"
	ChartElectronicBooks       = "livros-eletronicos"
)

var (
	ErrUnknownChart = errors.New("unknown chart")
	ErrUnavailable  = errors.New("widget unavailable")
)

// UnavailableError reports a widget that cannot be built for the current
// view. Message is shown to the user as is.
type UnavailableError struct {
	Widget  string
	Message string
}

func (e *UnavailableError) Error() string {
	return e.Message
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// DegreeOrder is the stacking order of the faculty-by-degree chart.
var DegreeOrder = []string{
	schema.FacultyDoctorate,
	schema.FacultyGraduate,
	schema.FacultyNoDegree,
	schema.FacultySpecialization,
	schema.FacultyMaster,
}

type chartDef struct {
	id          string
	title       string
	kind        types.ChartKind
	requires    []string
	unavailable string
	build       func(df dataframe.DataFrame, c *types.Chart) error
}

func unavailableMsg(title, reason string) string {
	return fmt.Sprintf("Não foi possível gerar '%s': %s", title, reason)
}

const reasonColumns = "Colunas necessárias ausentes ou dados filtrados vazios."

var chartDefs = []chartDef{
	{
		id:          ChartIESByMunicipality,
		title:       "Total de IES por Município",
		kind:        types.ChartBar,
		requires:    []string{schema.Municipality, schema.InstitutionName},
		unavailable: unavailableMsg("Total de IES por Município", reasonColumns),
		build:       buildIESByMunicipality,
	},
	{
		id:          ChartOrganizations,
		title:       "Quantidade de Organizações Acadêmicas",
		kind:        types.ChartHBar,
		requires:    []string{schema.Organization},
		unavailable: unavailableMsg("Quantidade de Organizações Acadêmicas", reasonColumns),
		build:       buildOrganizations,
	},
	{
		id:          ChartTechnicalByMaintainer,
		title:       "Quantidade Total de Técnicos por Mantenedora",
		kind:        types.ChartHBar,
		requires:    []string{schema.Maintainer, schema.TechnicalTotal},
		unavailable: unavailableMsg("Quantidade Total de Técnicos por Mantenedora", reasonColumns),
		build:       buildTechnicalByMaintainer,
	},
	{
		id:          ChartFacultyBySex,
		title:       "Docentes por Sexo e Organização Acadêmica",
		kind:        types.ChartGrouped,
		requires:    []string{schema.Organization, schema.FacultyFemale, schema.FacultyMale},
		unavailable: unavailableMsg("Quantidade de Docentes por Sexo e Organização Acadêmica", reasonColumns),
		build:       buildFacultyBySex,
	},
	{
		id:          ChartCategories,
		title:       "Distribuição de Instituições por Categoria Administrativa",
		kind:        types.ChartPie,
		requires:    []string{schema.Category},
		unavailable: unavailableMsg("Distribuição de Instituições por Categoria Administrativa", "Coluna 'Categoria Administrativa' ausente ou dados filtrados vazios."),
		build:       buildCategories,
	},
	{
		id:          ChartFacultyByDegree,
		title:       "Total de Docentes por Nível de Formação",
		kind:        types.ChartStacked,
		requires:    append([]string{schema.Network}, schema.DegreeColumns...),
		unavailable: unavailableMsg("Total de Docentes por Nível de Formação", "Colunas de docentes ausentes ou dados filtrados vazios."),
		build:       buildFacultyByDegree,
	},
	{
		id:          ChartElectronicBooks,
		title:       "Quantidade de livros eletrônicos por tipo de organização acadêmica",
		kind:        types.ChartTreemap,
		requires:    []string{schema.Organization, schema.ElectronicBooks},
		unavailable: unavailableMsg("Gráfico de Árvore", "Colunas essenciais ausentes ou dados filtrados vazios."),
		build:       buildElectronicBooks,
	},
}

// ChartIDs lists the charts in display order.
func ChartIDs() []string {
	ids := make([]string, len(chartDefs))
	for i, d := range chartDefs {
		ids[i] = d.id
	}
	return ids
}

func lookup(id string) (chartDef, bool) {
	for _, d := range chartDefs {
		if d.id == id {
			return d, true
		}
	}
	return chartDef{}, false
}

// Chart builds one chart over v.
func Chart(v query.View, id string) (types.Chart, error) {
	def, ok := lookup(id)
	if !ok {
		return types.Chart{}, fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	if v.Empty() || !v.Columns.Has(def.requires...) {
		return types.Chart{}, &UnavailableError{Widget: id, Message: def.unavailable}
	}

	c := types.Chart{ID: def.id, Title: def.title, Kind: def.kind}
	if err := def.build(v.Frame, &c); err != nil {
		return types.Chart{}, fmt.Errorf("failed to build chart %s: %w", id, err)
	}
	return c, nil
}

// Charts builds every chart it can. Each chart that cannot be built yields a
// warning instead; the others are unaffected.
func Charts(v query.View) ([]types.Chart, []Warning) {
	var charts []types.Chart
	var warnings []Warning
	for _, def := range chartDefs {
		c, err := Chart(v, def.id)
		if err != nil {
			warnings = append(warnings, warningFor(def.id, err))
			continue
		}
		charts = append(charts, c)
	}
	return charts, warnings
}

func pointsOf(df dataframe.DataFrame, labelCol, valueCol string) []types.Point {
	labels := df.Col(labelCol).Records()
	values := df.Col(valueCol).Float()
	out := make([]types.Point, len(labels))
	for i := range labels {
		out[i] = types.Point{Label: labels[i], Value: values[i]}
	}
	return out
}

// seriesByVar splits a melted frame into one series per variable, in order.
func seriesByVar(long dataframe.DataFrame, idCol, varCol, valueCol string, order []string) []types.Series {
	ids := long.Col(idCol).Records()
	vars := long.Col(varCol).Records()
	values := long.Col(valueCol).Float()

	byVar := make(map[string][]types.Point, len(order))
	for i := range ids {
		byVar[vars[i]] = append(byVar[vars[i]], types.Point{Label: ids[i], Value: values[i]})
	}

	out := make([]types.Series, 0, len(order))
	for _, name := range order {
		out = append(out, types.Series{Name: name, Points: byVar[name]})
	}
	return out
}

func buildIESByMunicipality(df dataframe.DataFrame, c *types.Chart) error {
	const value = "Total de IES"
	grouped, err := query.GroupCountDistinct(df, schema.Municipality, schema.InstitutionName, value)
	if err != nil {
		return err
	}
	grouped = query.SortBy(grouped, value, true)

	c.XLabel, c.YLabel = schema.Municipality, value
	c.Series = []types.Series{{Name: value, Points: pointsOf(grouped, schema.Municipality, value)}}
	return nil
}

func buildOrganizations(df dataframe.DataFrame, c *types.Chart) error {
	const value = "Frequência"
	counts, err := query.ValueCounts(df, schema.Organization, value)
	if err != nil {
		return err
	}
	counts = query.SortBy(counts, value, false)

	c.XLabel, c.YLabel = value, schema.Organization
	c.Series = []types.Series{{Name: value, Points: pointsOf(counts, schema.Organization, value)}}
	return nil
}

func buildTechnicalByMaintainer(df dataframe.DataFrame, c *types.Chart) error {
	grouped, err := query.GroupSum(df, []string{schema.Maintainer}, []string{schema.TechnicalTotal}, false)
	if err != nil {
		return err
	}
	grouped = query.SortBy(grouped, schema.TechnicalTotal, false)

	c.XLabel, c.YLabel = "Quantidade Total de Técnicos", schema.Maintainer
	c.Series = []types.Series{{Name: schema.TechnicalTotal, Points: pointsOf(grouped, schema.Maintainer, schema.TechnicalTotal)}}
	return nil
}

func buildFacultyBySex(df dataframe.DataFrame, c *types.Chart) error {
	const (
		varName   = "Sexo"
		valueName = "Quantidade de Docentes"
	)
	sexes := []string{schema.FacultyFemale, schema.FacultyMale}

	grouped, err := query.GroupSum(df, []string{schema.Organization}, sexes, false)
	if err != nil {
		return err
	}
	long, err := query.Melt(grouped, []string{schema.Organization}, sexes, varName, valueName)
	if err != nil {
		return err
	}

	total := query.Sum(long, valueName)
	c.XLabel, c.YLabel = schema.Organization, valueName
	c.Series = seriesByVar(long, schema.Organization, varName, valueName, sexes)
	c.Total = &types.Metric{
		Label:   "Quantidade total de docentes",
		Value:   total,
		Display: FormatThousands(total),
	}
	return nil
}

func buildCategories(df dataframe.DataFrame, c *types.Chart) error {
	const value = "Número de IES"
	counts, err := query.ValueCounts(df, schema.Category, value)
	if err != nil {
		return err
	}

	c.Series = []types.Series{{Name: value, Points: pointsOf(counts, schema.Category, value)}}
	return nil
}

func buildFacultyByDegree(df dataframe.DataFrame, c *types.Chart) error {
	const (
		varName   = "Nível de Formação"
		valueName = "Quantidade"
	)
	grouped, err := query.GroupSum(df, []string{schema.Network}, schema.DegreeColumns, false)
	if err != nil {
		return err
	}
	long, err := query.Melt(grouped, []string{schema.Network}, schema.DegreeColumns, varName, valueName)
	if err != nil {
		return err
	}

	c.XLabel, c.YLabel = valueName, schema.Network
	c.Series = seriesByVar(long, schema.Network, varName, valueName, DegreeOrder)
	return nil
}

func buildElectronicBooks(df dataframe.DataFrame, c *types.Chart) error {
	grouped, err := query.GroupSum(df, []string{schema.Organization}, []string{schema.ElectronicBooks}, false)
	if err != nil {
		return err
	}
	grouped = query.SortBy(grouped, schema.ElectronicBooks, true)

	c.Series = []types.Series{{Name: "Quantidade de livros eletrônicos", Points: pointsOf(grouped, schema.Organization, schema.ElectronicBooks)}}
	return nil
}
