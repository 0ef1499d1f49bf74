package types

// Institution is one normalized census row.
type Institution struct {
	CensusYear            int                `json:"census_year"`
	MunicipalityCode      int64              `json:"municipality_code"`
	Municipality          string             `json:"municipality"`
	Capital               string             `json:"capital"`
	Organization          string             `json:"organization"`
	Network               string             `json:"network"`
	Category              string             `json:"category"`
	Name                  string             `json:"name"`
	Acronym               string             `json:"acronym"`
	Maintainer            string             `json:"maintainer"`
	FacultyTotal          float64            `json:"faculty_total"`
	TechnicalTotal        float64            `json:"technical_total"`
	FacultyNoDegree       float64            `json:"faculty_no_degree"`
	FacultyGraduate       float64            `json:"faculty_graduate"`
	FacultySpecialization float64            `json:"faculty_specialization"`
	FacultyMaster         float64            `json:"faculty_master"`
	FacultyDoctorate      float64            `json:"faculty_doctorate"`
	ElectronicBooks       float64            `json:"electronic_books"`
	FacultyFemale         float64            `json:"faculty_female"`
	FacultyMale           float64            `json:"faculty_male"`
	FacultyByAge          map[string]float64 `json:"faculty_by_age"`
}

// DetailRow is one line of the grouped institution table.
type DetailRow struct {
	CensusYear     string  `json:"census_year"`
	Municipality   string  `json:"municipality"`
	Name           string  `json:"name"`
	Acronym        string  `json:"acronym"`
	Organization   string  `json:"organization"`
	Network        string  `json:"network"`
	Category       string  `json:"category"`
	FacultyTotal   float64 `json:"faculty_total"`
	TechnicalTotal float64 `json:"technical_total"`
}

type Metric struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

type KeyMetrics struct {
	Institutions   Metric `json:"institutions"`
	Faculty        Metric `json:"faculty"`
	Municipalities Metric `json:"municipalities"`
	TechnicalStaff Metric `json:"technical_staff"`
}

type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartHBar    ChartKind = "hbar"
	ChartGrouped ChartKind = "grouped"
	ChartStacked ChartKind = "stacked"
	ChartPie     ChartKind = "pie"
	ChartTreemap ChartKind = "treemap"
)

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

type Chart struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Kind   ChartKind `json:"kind"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Series []Series  `json:"series"`
	Total  *Metric   `json:"total,omitempty"`
}

// Categories returns the point labels of the first series, in order.
func (c Chart) Categories() []string {
	if len(c.Series) == 0 {
		return nil
	}
	out := make([]string, len(c.Series[0].Points))
	for i, p := range c.Series[0].Points {
		out[i] = p.Label
	}
	return out
}

type Preview struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Shown    int        `json:"shown"`
	Filtered int        `json:"filtered"`
	Total    int        `json:"total"`
}

type FilterOptions struct {
	Organizations  []string `json:"organizations"`
	Networks       []string `json:"networks"`
	Municipalities []string `json:"municipalities"`
}
