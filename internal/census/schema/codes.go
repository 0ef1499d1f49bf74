package schema

// UndefinedLabel replaces any categorical code outside its table.
const UndefinedLabel = "Não Definido"

// CodeTable maps an integer census code to its label.
type CodeTable struct {
	Column string
	Labels map[int]string
}

// Label returns the label for code, or UndefinedLabel.
func (t CodeTable) Label(code int) (string, bool) {
	label, ok := t.Labels[code]
	if !ok {
		return UndefinedLabel, false
	}
	return label, true
}

// Values returns every label the column may hold after recoding, sentinel
// included.
func (t CodeTable) Values() []string {
	out := make([]string, 0, len(t.Labels)+1)
	for _, l := range t.Labels {
		out = append(out, l)
	}
	return append(out, UndefinedLabel)
}

var CapitalCodes = CodeTable{
	Column: Capital,
	Labels: map[int]string{1: "Sim", 0: "Não"},
}

var OrganizationCodes = CodeTable{
	Column: Organization,
	Labels: map[int]string{
		1:  "Universidade",
		2:  "Centro Universitário",
		3:  "Faculdade",
		4:  "Instituto Federal de Educação, Ciência e Tecnologia (IF)",
		5:  "Centro Federal de Educação Tecnológica (CEFET)",
		99: "Outra",
	},
}

var NetworkCodes = CodeTable{
	Column: Network,
	Labels: map[int]string{1: "Pública", 2: "Privada"},
}

var CategoryCodes = CodeTable{
	Column: Category,
	Labels: map[int]string{
		1: "Pública Federal",
		2: "Pública Estadual",
		3: "Pública Municipal",
		4: "Privada com fins lucrativos",
		5: "Privada sem fins lucrativos",
		6: "Privada - Particular em sentido estrito",
		7: "Especial",
		8: "Privada comunitária",
		9: "Privada confessional",
	},
}

// CategoricalTables are applied in this order during normalization.
var CategoricalTables = []CodeTable{
	CapitalCodes,
	OrganizationCodes,
	NetworkCodes,
	CategoryCodes,
}
