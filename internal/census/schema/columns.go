// Package schema holds the fixed column contract of the INEP higher-education
// census table for RIDE/DF: required source columns, display names, numeric
// count columns and the categorical code tables.
package schema

// Source column names as published in the census file.
const (
	SrcCensusYear            = "NU_ANO_CENSO"
	SrcMunicipalityCode      = "CO_MUNICIPIO_IES"
	SrcMunicipality          = "nome_municipio"
	SrcCapital               = "IN_CAPITAL_IES"
	SrcOrganization          = "TP_ORGANIZACAO_ACADEMICA"
	SrcNetwork               = "TP_REDE"
	SrcCategory              = "TP_CATEGORIA_ADMINISTRATIVA"
	SrcInstitutionName       = "NO_IES"
	SrcInstitutionAcronym    = "SG_IES"
	SrcFacultyTotal          = "QT_DOC_TOTAL"
	SrcTechnicalTotal        = "QT_TEC_TOTAL"
	SrcMaintainer            = "NO_MANTENEDORA"
	SrcFacultyNoDegree       = "QT_DOC_EX_SEM_GRAD"
	SrcFacultyGraduate       = "QT_DOC_EX_GRAD"
	SrcFacultySpecialization = "QT_DOC_EX_ESP"
	SrcFacultyMaster         = "QT_DOC_EX_MEST"
	SrcFacultyDoctorate      = "QT_DOC_EX_DOUT"
	SrcElectronicBooks       = "QT_LIVRO_ELETRONICO"
	SrcFacultyFemale         = "QT_DOC_EX_FEMI"
	SrcFacultyMale           = "QT_DOC_EX_MASC"
	SrcFacultyAge0To29       = "QT_DOC_EX_0_29"
	SrcFacultyAge30To34      = "QT_DOC_EX_30_34"
	SrcFacultyAge35To39      = "QT_DOC_EX_35_39"
	SrcFacultyAge40To44      = "QT_DOC_EX_40_44"
	SrcFacultyAge45To49      = "QT_DOC_EX_45_49"
	SrcFacultyAge50To54      = "QT_DOC_EX_50_54"
	SrcFacultyAge55To59      = "QT_DOC_EX_55_59"
	SrcFacultyAge60AndOver   = "QT_DOC_EX_60_MAIS"
)

// Display column names used after normalization.
const (
	CensusYear            = "Ano do Censo"
	Municipality          = "Município"
	Capital               = "É Capital?"
	Organization          = "Organização Acadêmica"
	Network               = "Tipo de Rede"
	Category              = "Categoria Administrativa"
	Maintainer            = "Mantenedora"
	InstitutionName       = "Nome da IES"
	InstitutionAcronym    = "Sigla da IES"
	FacultyTotal          = "Total de Docentes"
	TechnicalTotal        = "Total de Técnicos"
	FacultyNoDegree       = "Docentes Sem Graduação"
	FacultyGraduate       = "Docentes com Graduação"
	FacultySpecialization = "Docentes com Especialização"
	FacultyMaster         = "Docentes com Mestrado"
	FacultyDoctorate      = "Docentes com Doutorado"
	ElectronicBooks       = "Total de Livros Eletrônicos"
	FacultyFemale         = "Docentes Feminino"
	FacultyMale           = "Docentes Masculino"
)

// RequiredColumns must all be present in the source header, in this order
// when reported as missing.
var RequiredColumns = []string{
	SrcCensusYear, SrcMunicipalityCode, SrcMunicipality, SrcCapital,
	SrcOrganization, SrcNetwork, SrcCategory,
	SrcInstitutionName, SrcInstitutionAcronym,
	SrcFacultyTotal, SrcTechnicalTotal, SrcMaintainer,
	SrcFacultyNoDegree, SrcFacultyGraduate, SrcFacultySpecialization,
	SrcFacultyMaster, SrcFacultyDoctorate,
	SrcElectronicBooks, SrcFacultyFemale, SrcFacultyMale,
	SrcFacultyAge0To29, SrcFacultyAge30To34, SrcFacultyAge35To39, SrcFacultyAge40To44,
	SrcFacultyAge45To49, SrcFacultyAge50To54, SrcFacultyAge55To59, SrcFacultyAge60AndOver,
}

// Renames maps source names to display names. Columns absent from the map
// keep their source name.
var Renames = map[string]string{
	SrcCensusYear:            CensusYear,
	SrcMunicipality:          Municipality,
	SrcCapital:               Capital,
	SrcOrganization:          Organization,
	SrcNetwork:               Network,
	SrcCategory:              Category,
	SrcMaintainer:            Maintainer,
	SrcInstitutionName:       InstitutionName,
	SrcInstitutionAcronym:    InstitutionAcronym,
	SrcFacultyTotal:          FacultyTotal,
	SrcTechnicalTotal:        TechnicalTotal,
	SrcFacultyNoDegree:       FacultyNoDegree,
	SrcFacultyGraduate:       FacultyGraduate,
	SrcFacultySpecialization: FacultySpecialization,
	SrcFacultyMaster:         FacultyMaster,
	SrcFacultyDoctorate:      FacultyDoctorate,
	SrcElectronicBooks:       ElectronicBooks,
	SrcFacultyFemale:         FacultyFemale,
	SrcFacultyMale:           FacultyMale,
}

// NumericColumns are zero-filled count columns (display names).
var NumericColumns = []string{
	FacultyTotal, TechnicalTotal,
	FacultyNoDegree, FacultyGraduate, FacultySpecialization,
	FacultyMaster, FacultyDoctorate,
	ElectronicBooks, FacultyFemale, FacultyMale,
}

// DegreeColumns lists faculty counts per highest degree, in source order.
var DegreeColumns = []string{
	FacultyNoDegree,
	FacultyGraduate,
	FacultySpecialization,
	FacultyMaster,
	FacultyDoctorate,
}

// DisplayName returns the display name for a source column.
func DisplayName(source string) string {
	if name, ok := Renames[source]; ok {
		return name
	}
	return source
}
