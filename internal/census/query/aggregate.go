package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats"
)

// Aggregations are computed by hand over gota columns instead of
// DataFrame.GroupBy: GroupBy rebuilds every group with LoadMaps, which
// re-detects column types and reorders columns alphabetically.

func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese)
}

func isBlank(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "NaN"
}

// SortStrings sorts labels in pt-BR collation order, in place.
func SortStrings(values []string) {
	newCollator().SortStrings(values)
}

// Distinct returns the non-blank distinct values of col, collated.
func Distinct(df dataframe.DataFrame, col string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range df.Col(col).Records() {
		if isBlank(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	SortStrings(out)
	return out
}

// CountDistinct counts the non-blank distinct values of col.
func CountDistinct(df dataframe.DataFrame, col string) int {
	seen := make(map[string]struct{})
	for _, v := range df.Col(col).Records() {
		if !isBlank(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Sum adds up a numeric column.
func Sum(df dataframe.DataFrame, col string) float64 {
	if df.Nrow() == 0 {
		return 0
	}
	return floats.Sum(df.Col(col).Float())
}

type groupKey []string

func (k groupKey) String() string {
	return strings.Join(k, "\x1f")
}

func keyLess(c *collate.Collator, a, b groupKey) bool {
	for i := range a {
		if cmp := c.CompareString(a[i], b[i]); cmp != 0 {
			return cmp < 0
		}
	}
	return false
}

type grouping struct {
	keys []groupKey
	rows map[string][]int
}

func group(df dataframe.DataFrame, by []string, keepBlank bool) grouping {
	cols := make([][]string, len(by))
	for i, name := range by {
		cols[i] = df.Col(name).Records()
	}

	g := grouping{rows: make(map[string][]int)}
rows:
	for r := 0; r < df.Nrow(); r++ {
		key := make(groupKey, len(by))
		for i := range by {
			v := cols[i][r]
			if isBlank(v) {
				if !keepBlank {
					continue rows
				}
				v = ""
			}
			key[i] = v
		}
		id := key.String()
		if _, ok := g.rows[id]; !ok {
			g.keys = append(g.keys, key)
		}
		g.rows[id] = append(g.rows[id], r)
	}

	c := newCollator()
	sort.SliceStable(g.keys, func(i, j int) bool { return keyLess(c, g.keys[i], g.keys[j]) })
	return g
}

func keyColumns(g grouping, by []string) []series.Series {
	out := make([]series.Series, len(by))
	for i, name := range by {
		vals := make([]string, len(g.keys))
		for k, key := range g.keys {
			vals[k] = key[i]
		}
		out[i] = series.New(vals, series.String, name)
	}
	return out
}

func build(cols []series.Series) (dataframe.DataFrame, error) {
	df := dataframe.New(cols...)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build aggregate: %w", df.Error())
	}
	return df, nil
}

// GroupCountDistinct counts distinct non-blank values of col per value of by.
// The result has columns [by, name], ordered by key.
func GroupCountDistinct(df dataframe.DataFrame, by, col, name string) (dataframe.DataFrame, error) {
	g := group(df, []string{by}, false)
	values := df.Col(col).Records()

	counts := make([]int, len(g.keys))
	for i, key := range g.keys {
		seen := make(map[string]struct{})
		for _, r := range g.rows[key.String()] {
			if !isBlank(values[r]) {
				seen[values[r]] = struct{}{}
			}
		}
		counts[i] = len(seen)
	}

	cols := keyColumns(g, []string{by})
	return build(append(cols, series.New(counts, series.Int, name)))
}

// GroupSum sums cols per distinct combination of by. Rows with a blank key
// component are dropped unless keepBlank is set. Rows are ordered by key.
func GroupSum(df dataframe.DataFrame, by []string, cols []string, keepBlank bool) (dataframe.DataFrame, error) {
	g := group(df, by, keepBlank)

	out := keyColumns(g, by)
	for _, col := range cols {
		values := df.Col(col).Float()
		sums := make([]float64, len(g.keys))
		for i, key := range g.keys {
			for _, r := range g.rows[key.String()] {
				sums[i] += values[r]
			}
		}
		out = append(out, series.New(sums, series.Float, col))
	}
	return build(out)
}

// ValueCounts counts rows per non-blank value of col, most frequent first.
// The result has columns [col, name].
func ValueCounts(df dataframe.DataFrame, col, name string) (dataframe.DataFrame, error) {
	g := group(df, []string{col}, false)

	counts := make(map[string]int, len(g.keys))
	for _, key := range g.keys {
		counts[key.String()] = len(g.rows[key.String()])
	}
	sort.SliceStable(g.keys, func(i, j int) bool {
		return counts[g.keys[i].String()] > counts[g.keys[j].String()]
	})

	vals := make([]int, len(g.keys))
	for i, key := range g.keys {
		vals[i] = counts[key.String()]
	}
	cols := keyColumns(g, []string{col})
	return build(append(cols, series.New(vals, series.Int, name)))
}

// Sums totals each of cols into a two-column frame [varName, valueName], one
// row per column in argument order.
func Sums(df dataframe.DataFrame, cols []string, varName, valueName string) (dataframe.DataFrame, error) {
	totals := make([]float64, len(cols))
	for i, col := range cols {
		totals[i] = Sum(df, col)
	}
	return build([]series.Series{
		series.New(cols, series.String, varName),
		series.New(totals, series.Float, valueName),
	})
}

// Melt turns valueVars into rows: for each value column, every input row
// yields (idVars..., varName=column, valueName=value).
func Melt(df dataframe.DataFrame, idVars, valueVars []string, varName, valueName string) (dataframe.DataFrame, error) {
	n := df.Nrow()
	src := make([][]string, len(idVars))
	ids := make([][]string, len(idVars))
	for i, name := range idVars {
		src[i] = df.Col(name).Records()
		ids[i] = make([]string, 0, n*len(valueVars))
	}
	vars := make([]string, 0, n*len(valueVars))
	vals := make([]float64, 0, n*len(valueVars))

	for _, vv := range valueVars {
		column := df.Col(vv).Float()
		for r := 0; r < n; r++ {
			for i := range idVars {
				ids[i] = append(ids[i], src[i][r])
			}
			vars = append(vars, vv)
			vals = append(vals, column[r])
		}
	}

	out := make([]series.Series, 0, len(idVars)+2)
	for i, name := range idVars {
		out = append(out, series.New(ids[i], series.String, name))
	}
	out = append(out,
		series.New(vars, series.String, varName),
		series.New(vals, series.Float, valueName),
	)
	return build(out)
}

// SortBy reorders df by a numeric column. Ties keep their current order.
func SortBy(df dataframe.DataFrame, col string, descending bool) dataframe.DataFrame {
	values := df.Col(col).Float()
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return values[idx[a]] > values[idx[b]]
		}
		return values[idx[a]] < values[idx[b]]
	})
	if len(idx) == 0 {
		return df
	}
	return df.Subset(idx)
}
