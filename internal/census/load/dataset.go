package load

import (
	"time"

	"github.com/farxc/painel-ies/internal/census/query"
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
)

// Report describes what normalization changed or could not map.
type Report struct {
	Rows int `json:"rows"`
	// FilledCounts counts numeric cells that were empty or unparsable and
	// became 0, per column.
	FilledCounts map[string]int `json:"filled_counts,omitempty"`
	// NegativeCounts counts negative numeric cells kept as is, per column.
	NegativeCounts map[string]int `json:"negative_counts,omitempty"`
	// Unmapped counts non-empty categorical cells outside their code table,
	// per column and raw value.
	Unmapped map[string]map[string]int `json:"unmapped,omitempty"`
	Warnings []string                  `json:"warnings,omitempty"`
}

func newReport(rows int) Report {
	return Report{
		Rows:           rows,
		FilledCounts:   make(map[string]int),
		NegativeCounts: make(map[string]int),
		Unmapped:       make(map[string]map[string]int),
	}
}

func (r *Report) unmapped(column, value string) {
	if r.Unmapped[column] == nil {
		r.Unmapped[column] = make(map[string]int)
	}
	r.Unmapped[column][value]++
}

// Dataset is a normalized census table. It is shared read-only between
// requests; filters produce new frames.
type Dataset struct {
	ID       uuid.UUID
	Frame    dataframe.DataFrame
	Columns  schema.Columns
	Report   Report
	Source   string
	Hash     string
	LoadedAt time.Time
}

// Empty returns a dataset with no columns and no rows, used when loading
// failed.
func Empty() *Dataset {
	return &Dataset{Columns: schema.Columns{}}
}

func (d *Dataset) Rows() int {
	if d == nil || len(d.Columns) == 0 {
		return 0
	}
	return d.Frame.Nrow()
}

func (d *Dataset) View() query.View {
	if d == nil || len(d.Columns) == 0 {
		return query.View{Columns: schema.Columns{}}
	}
	return query.NewView(d.Frame, d.Columns)
}
