package load

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farxc/painel-ies/internal/census/files"
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "testdata/censo_ride_df.csv"

// csvRow builds one data line with every required column set to "0" except
// the overrides.
func csvRow(overrides map[string]string, columns []string) string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = "0"
		if v, ok := overrides[c]; ok {
			cells[i] = v
		}
	}
	return strings.Join(cells, ";")
}

func writeCSV(t *testing.T, columns []string, rows ...map[string]string) string {
	t.Helper()
	lines := []string{strings.Join(columns, ";")}
	for _, r := range rows {
		lines = append(lines, csvRow(r, columns))
	}
	path := filepath.Join(t.TempDir(), files.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func without(columns []string, drop string) []string {
	var out []string
	for _, c := range columns {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}

func TestLoad_Fixture(t *testing.T) {
	ds, err := Load(fixture)
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Rows())
	assert.Equal(t, 5, ds.Report.Rows)
	assert.NotEmpty(t, ds.Hash)
	assert.True(t, filepath.IsAbs(ds.Source))

	for _, src := range schema.RequiredColumns {
		assert.True(t, ds.Columns.Has(schema.DisplayName(src)), "column %s", src)
	}

	assert.Equal(t,
		[]string{"Sim", "Sim", "Sim", "Não", "Não"},
		ds.Frame.Col(schema.Capital).Records())
	assert.Equal(t,
		[]string{"Universidade", "Centro Universitário", "Instituto Federal de Educação, Ciência e Tecnologia (IF)", "Faculdade", schema.UndefinedLabel},
		ds.Frame.Col(schema.Organization).Records())
	assert.Equal(t,
		[]float64{2800, 0, 950, 45, 30},
		ds.Frame.Col(schema.FacultyTotal).Float())
	assert.Equal(t,
		[]float64{3100, 420, 800, 12, 0},
		ds.Frame.Col(schema.TechnicalTotal).Float())

	assert.Equal(t, 1, ds.Report.FilledCounts[schema.FacultyTotal])
	assert.Equal(t, 1, ds.Report.FilledCounts[schema.TechnicalTotal])
	assert.Equal(t, 2, ds.Report.FilledCounts[schema.ElectronicBooks])
	assert.Equal(t, map[string]int{"7": 1}, ds.Report.Unmapped[schema.Organization])
	assert.Equal(t, map[string]int{"12": 1}, ds.Report.Unmapped[schema.Category])
	assert.Len(t, ds.Report.Warnings, 2)
}

func TestLoad_EndToEndRow(t *testing.T) {
	path := writeCSV(t, schema.RequiredColumns, map[string]string{
		schema.SrcCapital:         "1",
		schema.SrcOrganization:    "1",
		schema.SrcNetwork:         "2",
		schema.SrcCategory:        "5",
		schema.SrcFacultyTotal:    "",
		schema.SrcInstitutionName: "UNIVERSIDADE X",
	})

	ds, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Rows())

	assert.Equal(t, "Sim", ds.Frame.Col(schema.Capital).Records()[0])
	assert.Equal(t, "Universidade", ds.Frame.Col(schema.Organization).Records()[0])
	assert.Equal(t, "Privada", ds.Frame.Col(schema.Network).Records()[0])
	assert.Equal(t, "Privada sem fins lucrativos", ds.Frame.Col(schema.Category).Records()[0])
	assert.Equal(t, 0.0, ds.Frame.Col(schema.FacultyTotal).Float()[0])
	assert.Equal(t, "UNIVERSIDADE X", ds.Frame.Col(schema.InstitutionName).Records()[0])
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeCSV(t, without(schema.RequiredColumns, schema.SrcFacultyTotal), map[string]string{})

	ds, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Equal(t, KindSchema, KindOf(err))

	var le *Error
	require.True(t, errors.As(err, &le))
	assert.Equal(t, []string{schema.SrcFacultyTotal}, le.Missing)
	assert.Contains(t, err.Error(), schema.SrcFacultyTotal)
}

func TestLoad_MissingColumnsInRequiredOrder(t *testing.T) {
	columns := without(without(schema.RequiredColumns, schema.SrcFacultyAge60AndOver), schema.SrcCensusYear)
	path := writeCSV(t, columns, map[string]string{})

	_, err := Load(path)
	var le *Error
	require.True(t, errors.As(err, &le))
	assert.Equal(t, []string{schema.SrcCensusYear, schema.SrcFacultyAge60AndOver}, le.Missing)
}

func TestLoad_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), path)
}

func TestLoad_DirectoryIsNotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_InvalidUTF8(t *testing.T) {
	header := strings.Join(schema.RequiredColumns, ";")
	row := csvRow(map[string]string{schema.SrcMunicipality: "Bras\xedlia"}, schema.RequiredColumns)
	path := filepath.Join(t.TempDir(), "latin1.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"\n"+row+"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, files.ErrDecode))

	// the same bytes are fine when the charset is configured
	ds, err := Load(path, WithEncoding("windows-1252"))
	require.NoError(t, err)
	assert.Equal(t, "Brasília", ds.Frame.Col(schema.Municipality).Records()[0])
}

func TestLoad_HeaderOnlyIsParseError(t *testing.T) {
	path := writeCSV(t, schema.RequiredColumns)

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestLoad_ShortRowIsPadded(t *testing.T) {
	header := strings.Join(schema.RequiredColumns, ";")
	full := csvRow(map[string]string{
		schema.SrcCapital:      "1",
		schema.SrcNetwork:      "1",
		schema.SrcFacultyTotal: "10",
	}, schema.RequiredColumns)
	short := "2023;5300108;Brasília"
	path := filepath.Join(t.TempDir(), files.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(header+"\n"+full+"\n"+short+"\n"), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Rows())

	assert.Equal(t, []string{"Sim", schema.UndefinedLabel}, ds.Frame.Col(schema.Capital).Records())
	assert.Equal(t, []string{"Pública", schema.UndefinedLabel}, ds.Frame.Col(schema.Network).Records())
	assert.Equal(t, []string{"Brasília", "Brasília"}, ds.Frame.Col(schema.Municipality).Records())
	assert.Equal(t, []float64{10, 0}, ds.Frame.Col(schema.FacultyTotal).Float())
	assert.Equal(t, []float64{0, 0}, ds.Frame.Col(schema.FacultyMale).Float())
	assert.Equal(t, 1, ds.Report.FilledCounts[schema.FacultyTotal])
	// padded cells are blank, not unknown codes
	assert.Empty(t, ds.Report.Unmapped[schema.Capital])
}

func TestLoad_LongRowIsParseError(t *testing.T) {
	header := strings.Join(schema.RequiredColumns, ";")
	row := csvRow(map[string]string{}, schema.RequiredColumns) + ";extra"
	path := filepath.Join(t.TempDir(), files.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(header+"\n"+row+"\n"), 0o644))

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestLoad_DuplicateColumnIsSchemaError(t *testing.T) {
	columns := append(append([]string{}, schema.RequiredColumns...), schema.SrcInstitutionName)
	path := writeCSV(t, columns, map[string]string{})

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.True(t, errors.Is(err, files.ErrDuplicateColumn))

	var le *Error
	require.True(t, errors.As(err, &le))
	assert.Empty(t, le.Missing)
	assert.Contains(t, err.Error(), schema.SrcInstitutionName)
	assert.NotContains(t, err.Error(), "não foram encontradas")
}

func TestLoad_UnknownEncoding(t *testing.T) {
	_, err := Load(fixture, WithEncoding("ebcdic"))
	assert.True(t, errors.Is(err, ErrParse))
}

func TestNormalize_ZeroFillAndNegatives(t *testing.T) {
	path := writeCSV(t, schema.RequiredColumns,
		map[string]string{schema.SrcTechnicalTotal: "NaN", schema.SrcFacultyFemale: " 12 "},
		map[string]string{schema.SrcTechnicalTotal: "-3", schema.SrcFacultyFemale: "x"},
		map[string]string{schema.SrcTechnicalTotal: "1.0", schema.SrcFacultyFemale: "Inf"},
	)
	src, err := files.Read(path)
	require.NoError(t, err)

	ds, err := Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, -3, 1}, ds.Frame.Col(schema.TechnicalTotal).Float())
	assert.Equal(t, []float64{12, 0, 0}, ds.Frame.Col(schema.FacultyFemale).Float())
	assert.Equal(t, 1, ds.Report.NegativeCounts[schema.TechnicalTotal])
	assert.Equal(t, 2, ds.Report.FilledCounts[schema.FacultyFemale])
}

func TestNormalize_CodeVariants(t *testing.T) {
	path := writeCSV(t, schema.RequiredColumns,
		map[string]string{schema.SrcNetwork: "1.0", schema.SrcCapital: ""},
		map[string]string{schema.SrcNetwork: "1.5", schema.SrcCapital: "sim"},
		map[string]string{schema.SrcNetwork: "3", schema.SrcCapital: "0"},
	)

	ds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Pública", schema.UndefinedLabel, schema.UndefinedLabel}, ds.Frame.Col(schema.Network).Records())
	assert.Equal(t, []string{schema.UndefinedLabel, schema.UndefinedLabel, "Não"}, ds.Frame.Col(schema.Capital).Records())
	assert.Equal(t, map[string]int{"1.5": 1, "3": 1}, ds.Report.Unmapped[schema.Network])
	// blank cells are defaulted but not reported as drift
	assert.Equal(t, map[string]int{"sim": 1}, ds.Report.Unmapped[schema.Capital])
}

func TestNormalize_ExtraColumnsKept(t *testing.T) {
	columns := append(append([]string{}, schema.RequiredColumns...), "CO_IES")
	path := writeCSV(t, columns, map[string]string{"CO_IES": "2"})

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"CO_IES"}, ds.Columns.Optional())
	assert.Equal(t, []string{"2"}, ds.Frame.Col("CO_IES").Records())
}

func TestNormalize_RenameConflict(t *testing.T) {
	columns := append(append([]string{}, schema.RequiredColumns...), schema.InstitutionName)
	path := writeCSV(t, columns, map[string]string{})

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestDataset_Empty(t *testing.T) {
	ds := Empty()
	assert.Equal(t, 0, ds.Rows())
	assert.True(t, ds.View().Empty())

	var nilDS *Dataset
	assert.Equal(t, 0, nilDS.Rows())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "NotFound", KindNotFound.String())
	assert.Equal(t, "ParseError", KindParse.String())
	assert.Equal(t, "SchemaError", KindSchema.String())
	assert.Equal(t, "UnexpectedError", KindUnexpected.String())
	assert.Equal(t, KindUnexpected, KindOf(errors.New("boom")))
}
