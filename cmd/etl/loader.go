package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/farxc/painel-ies/internal/census/converter"
	"github.com/farxc/painel-ies/internal/census/load"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/farxc/painel-ies/internal/store"
)

// institutionWriter is the part of store.Storage the publisher needs.
type institutionWriter interface {
	ReplaceCensusYear(ctx context.Context, year int, rows []store.Institution) (int64, error)
}

// yearBatch holds the rows of one census year in file order.
type yearBatch struct {
	year int
	rows []store.Institution
}

// batchesByYear converts the normalized table into store rows grouped by
// census year, years ascending.
func batchesByYear(ds *load.Dataset) []yearBatch {
	institutions := converter.DfToInstitutions(ds.Frame)
	datasetID := ds.ID.String()

	index := make(map[int]int)
	var batches []yearBatch
	for _, in := range institutions {
		i, ok := index[in.CensusYear]
		if !ok {
			i = len(batches)
			index[in.CensusYear] = i
			batches = append(batches, yearBatch{year: in.CensusYear})
		}
		batches[i].rows = append(batches[i].rows, converter.InstitutionToRecord(datasetID, in))
	}

	sort.SliceStable(batches, func(a, b int) bool { return batches[a].year < batches[b].year })
	return batches
}

// PublishDataset replaces, per census year, the published rows with the rows
// of ds. Years absent from ds are left untouched.
func PublishDataset(ctx context.Context, ds *load.Dataset, w institutionWriter, appLogger *logger.Logger) (map[int]int64, error) {
	const component = "Publisher"

	written := make(map[int]int64)
	for _, b := range batchesByYear(ds) {
		n, err := w.ReplaceCensusYear(ctx, b.year, b.rows)
		if err != nil {
			return written, fmt.Errorf("failed to publish census year %d: %w", b.year, err)
		}
		written[b.year] = n
		appLogger.Info(component, "Census year published: year=%d rows=%d", b.year, n)
	}
	return written, nil
}
