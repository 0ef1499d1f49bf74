// Package load turns a raw census export into a normalized Dataset:
// existence check, decoding, schema validation, renaming, zero-filling of
// count columns and recoding of categorical codes.
package load

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/farxc/painel-ies/internal/census/files"
	"github.com/farxc/painel-ies/internal/census/schema"
	"github.com/farxc/painel-ies/internal/census/utils"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
)

const component = "loader"

type options struct {
	encoding string
	logger   *logger.Logger
	now      func() time.Time
}

type Option func(*options)

// WithEncoding sets the source charset ("utf-8", "windows-1252",
// "iso-8859-1").
func WithEncoding(encoding string) Option {
	return func(o *options) { o.encoding = encoding }
}

func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{encoding: "utf-8", logger: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads path and normalizes it. Errors are always *Error.
func Load(path string, opts ...Option) (*Dataset, error) {
	src, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Normalize(src, opts...)
}

// Read is files.Read with failures reported as a NotFound *Error.
func Read(path string) (files.Source, error) {
	src, err := files.Read(path)
	if err != nil {
		return files.Source{Path: path, AbsPath: absPath(path)}, newError(KindNotFound, absPath(path), err)
	}
	return src, nil
}

// Normalize validates and cleans already-read content. The returned frame
// has exactly as many rows as the source has data lines.
func Normalize(src files.Source, opts ...Option) (ds *Dataset, err error) {
	o := newOptions(opts)
	path := src.AbsPath
	if path == "" {
		path = src.Path
	}

	defer func() {
		if r := recover(); r != nil {
			ds = nil
			err = newError(KindUnexpected, path, fmt.Errorf("panic during normalization: %v", r))
			o.logger.Error(component, "Recovered from panic normalizing %s: %v", path, r)
		}
	}()

	df, err := files.Decode(src.Content, o.encoding)
	if errors.Is(err, files.ErrDuplicateColumn) {
		return nil, newError(KindSchema, path, err)
	}
	if err != nil {
		return nil, newError(KindParse, path, err)
	}
	rows := df.Nrow()

	present := schema.NewColumns(df.Names())
	if missing := present.Missing(schema.RequiredColumns...); len(missing) > 0 {
		e := newError(KindSchema, path, nil)
		e.Missing = missing
		return nil, e
	}

	df, err = rename(df, present)
	if err != nil {
		return nil, newError(KindSchema, path, err)
	}

	report := newReport(rows)

	df, err = fillCounts(df, &report)
	if err != nil {
		return nil, newError(KindUnexpected, path, err)
	}

	df, err = recode(df, &report)
	if err != nil {
		return nil, newError(KindUnexpected, path, err)
	}

	if df.Nrow() != rows {
		return nil, newError(KindUnexpected, path, fmt.Errorf("row count changed from %d to %d", rows, df.Nrow()))
	}

	for _, w := range report.Warnings {
		o.logger.Warn(component, "%s", w)
	}
	o.logger.Info(component, "Loaded %d rows from %s", rows, path)

	return &Dataset{
		ID:       uuid.New(),
		Frame:    df,
		Columns:  schema.NewColumns(df.Names()),
		Report:   report,
		Source:   path,
		Hash:     src.Hash,
		LoadedAt: o.now(),
	}, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func rename(df dataframe.DataFrame, present schema.Columns) (dataframe.DataFrame, error) {
	for _, src := range schema.RequiredColumns {
		display := schema.DisplayName(src)
		if display == src {
			continue
		}
		// Another source column already carries the display name.
		if present.Has(display) {
			return df, fmt.Errorf("column %q conflicts with the rename of %q", display, src)
		}
		df = df.Rename(display, src)
		if df.Error() != nil {
			return df, fmt.Errorf("failed to rename %s: %w", src, df.Error())
		}
	}
	return df, nil
}

func fillCounts(df dataframe.DataFrame, report *Report) (dataframe.DataFrame, error) {
	for _, col := range schema.NumericColumns {
		records := df.Col(col).Records()
		values := make([]float64, len(records))
		for i, raw := range records {
			val, ok := utils.ParseCount(raw)
			if !ok {
				report.FilledCounts[col]++
				continue
			}
			if val < 0 {
				report.NegativeCounts[col]++
			}
			values[i] = val
		}

		df = df.Mutate(series.New(values, series.Float, col))
		if df.Error() != nil {
			return df, fmt.Errorf("failed to normalize %s: %w", col, df.Error())
		}
		if n := report.NegativeCounts[col]; n > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Coluna '%s': %d valor(es) negativo(s) mantido(s) sem alteração.", col, n))
		}
	}
	return df, nil
}

func recode(df dataframe.DataFrame, report *Report) (dataframe.DataFrame, error) {
	for _, table := range schema.CategoricalTables {
		records := df.Col(table.Column).Records()
		labels := make([]string, len(records))
		unmapped := 0
		for i, raw := range records {
			labels[i] = schema.UndefinedLabel
			code, ok := utils.ParseCode(raw)
			if ok {
				if label, known := table.Label(code); known {
					labels[i] = label
					continue
				}
			}
			if !utils.IsBlank(raw) {
				report.unmapped(table.Column, raw)
				unmapped++
			}
		}

		df = df.Mutate(series.New(labels, series.String, table.Column))
		if df.Error() != nil {
			return df, fmt.Errorf("failed to recode %s: %w", table.Column, df.Error())
		}
		if unmapped > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Coluna '%s': %d código(s) fora da tabela convertido(s) para '%s'.", table.Column, unmapped, schema.UndefinedLabel))
		}
	}
	return df, nil
}
