package converter

import (
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/farxc/painel-ies/internal/census/types"
	"github.com/farxc/painel-ies/internal/census/utils"
	"github.com/farxc/painel-ies/internal/store"
	"github.com/go-gota/gota/dataframe"
)

var ageColumns = []string{
	schema.SrcFacultyAge0To29,
	schema.SrcFacultyAge30To34,
	schema.SrcFacultyAge35To39,
	schema.SrcFacultyAge40To44,
	schema.SrcFacultyAge45To49,
	schema.SrcFacultyAge50To54,
	schema.SrcFacultyAge55To59,
	schema.SrcFacultyAge60AndOver,
}

func DfRowToInstitution(df dataframe.DataFrame, rowIdx int) types.Institution {
	return rowToInstitution(utils.NewRecords(&df), rowIdx)
}

func rowToInstitution(rec utils.Records, rowIdx int) types.Institution {
	byAge := make(map[string]float64, len(ageColumns))
	for _, col := range ageColumns {
		byAge[col] = rec.Float(col, rowIdx)
	}

	return types.Institution{
		CensusYear:            rec.Int(schema.CensusYear, rowIdx),
		MunicipalityCode:      utils.ParseInt64(rec.Str(schema.SrcMunicipalityCode, rowIdx)),
		Municipality:          rec.Str(schema.Municipality, rowIdx),
		Capital:               rec.Str(schema.Capital, rowIdx),
		Organization:          rec.Str(schema.Organization, rowIdx),
		Network:               rec.Str(schema.Network, rowIdx),
		Category:              rec.Str(schema.Category, rowIdx),
		Name:                  rec.Str(schema.InstitutionName, rowIdx),
		Acronym:               rec.Str(schema.InstitutionAcronym, rowIdx),
		Maintainer:            rec.Str(schema.Maintainer, rowIdx),
		FacultyTotal:          rec.Float(schema.FacultyTotal, rowIdx),
		TechnicalTotal:        rec.Float(schema.TechnicalTotal, rowIdx),
		FacultyNoDegree:       rec.Float(schema.FacultyNoDegree, rowIdx),
		FacultyGraduate:       rec.Float(schema.FacultyGraduate, rowIdx),
		FacultySpecialization: rec.Float(schema.FacultySpecialization, rowIdx),
		FacultyMaster:         rec.Float(schema.FacultyMaster, rowIdx),
		FacultyDoctorate:      rec.Float(schema.FacultyDoctorate, rowIdx),
		ElectronicBooks:       rec.Float(schema.ElectronicBooks, rowIdx),
		FacultyFemale:         rec.Float(schema.FacultyFemale, rowIdx),
		FacultyMale:           rec.Float(schema.FacultyMale, rowIdx),
		FacultyByAge:          byAge,
	}
}

func DfToInstitutions(df dataframe.DataFrame) []types.Institution {
	rec := utils.NewRecords(&df)
	out := make([]types.Institution, df.Nrow())
	for i := range out {
		out[i] = rowToInstitution(rec, i)
	}
	return out
}

func DfToDetailRows(df dataframe.DataFrame) []types.DetailRow {
	rec := utils.NewRecords(&df)
	out := make([]types.DetailRow, df.Nrow())
	for i := range out {
		out[i] = rowToDetailRow(rec, i)
	}
	return out
}

func rowToDetailRow(rec utils.Records, rowIdx int) types.DetailRow {
	return types.DetailRow{
		CensusYear:     rec.Str(schema.CensusYear, rowIdx),
		Municipality:   rec.Str(schema.Municipality, rowIdx),
		Name:           rec.Str(schema.InstitutionName, rowIdx),
		Acronym:        rec.Str(schema.InstitutionAcronym, rowIdx),
		Organization:   rec.Str(schema.Organization, rowIdx),
		Network:        rec.Str(schema.Network, rowIdx),
		Category:       rec.Str(schema.Category, rowIdx),
		FacultyTotal:   rec.Float(schema.FacultyTotal, rowIdx),
		TechnicalTotal: rec.Float(schema.TechnicalTotal, rowIdx),
	}
}

// InstitutionToRecord maps a normalized institution onto its table row.
func InstitutionToRecord(datasetID string, in types.Institution) store.Institution {
	return store.Institution{
		DatasetID:             datasetID,
		CensusYear:            in.CensusYear,
		MunicipalityCode:      in.MunicipalityCode,
		Municipality:          in.Municipality,
		Capital:               in.Capital,
		Organization:          in.Organization,
		Network:               in.Network,
		Category:              in.Category,
		Name:                  in.Name,
		Acronym:               in.Acronym,
		Maintainer:            in.Maintainer,
		FacultyTotal:          in.FacultyTotal,
		TechnicalTotal:        in.TechnicalTotal,
		FacultyNoDegree:       in.FacultyNoDegree,
		FacultyGraduate:       in.FacultyGraduate,
		FacultySpecialization: in.FacultySpecialization,
		FacultyMaster:         in.FacultyMaster,
		FacultyDoctorate:      in.FacultyDoctorate,
		ElectronicBooks:       in.ElectronicBooks,
		FacultyFemale:         in.FacultyFemale,
		FacultyMale:           in.FacultyMale,
	}
}
