package utils

import (
	"github.com/go-gota/gota/dataframe"
)

// Records holds the cells of a frame by column name. Building it copies each
// column once, so row-by-row reads stay linear in the frame size.
type Records map[string][]string

func NewRecords(df *dataframe.DataFrame) Records {
	if df == nil {
		return Records{}
	}
	names := df.Names()
	rec := make(Records, len(names))
	for _, col := range names {
		rec[col] = df.Col(col).Records()
	}
	return rec
}

func (r Records) cell(col string, rowIdx int) (string, bool) {
	values, ok := r[col]
	if !ok || rowIdx < 0 || rowIdx >= len(values) {
		return "", false
	}
	return values[rowIdx], true
}

func (r Records) Str(col string, rowIdx int) string {
	val, ok := r.cell(col, rowIdx)
	if !ok || IsBlank(val) {
		return ""
	}
	return val
}

func (r Records) Float(col string, rowIdx int) float64 {
	val, _ := r.cell(col, rowIdx)
	f, _ := ParseCount(val)
	return f
}

func (r Records) Int(col string, rowIdx int) int {
	val, _ := r.cell(col, rowIdx)
	return int(ParseInt64(val))
}
