package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/farxc/painel-ies/internal/census/load"
	"github.com/farxc/painel-ies/internal/logger"
	"github.com/farxc/painel-ies/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../internal/census/load/testdata/censo_ride_df.csv"

type fakeWriter struct {
	calls map[int][]store.Institution
	err   error
}

func (f *fakeWriter) ReplaceCensusYear(_ context.Context, year int, rows []store.Institution) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.calls == nil {
		f.calls = make(map[int][]store.Institution)
	}
	f.calls[year] = rows
	return int64(len(rows)), nil
}

func TestPublishDataset(t *testing.T) {
	ds, err := load.Load(fixture)
	require.NoError(t, err)

	w := &fakeWriter{}
	written, err := PublishDataset(context.Background(), ds, w, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, map[int]int64{2023: 5}, written)
	rows := w.calls[2023]
	require.Len(t, rows, 5)
	assert.Equal(t, "UNB", rows[0].Acronym)
	assert.Equal(t, ds.ID.String(), rows[0].DatasetID)
	assert.Equal(t, "Brasília", rows[0].Municipality)
}

func TestPublishDataset_SplitsYears(t *testing.T) {
	raw, err := os.ReadFile(fixture)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	lines[2] = strings.Replace(lines[2], "2023;", "2022;", 1)
	path := filepath.Join(t.TempDir(), "censo.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))

	ds, err := load.Load(path)
	require.NoError(t, err)

	batches := batchesByYear(ds)
	require.Len(t, batches, 2)
	assert.Equal(t, 2022, batches[0].year)
	assert.Len(t, batches[0].rows, 1)
	assert.Equal(t, 2023, batches[1].year)
	assert.Len(t, batches[1].rows, 4)
}

func TestPublishDataset_WriterError(t *testing.T) {
	ds, err := load.Load(fixture)
	require.NoError(t, err)

	boom := errors.New("connection reset")
	_, err = PublishDataset(context.Background(), ds, &fakeWriter{err: boom}, logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "2023")
}

func TestMemoryMonitor(t *testing.T) {
	m := NewMonitor()
	m.Start(time.Millisecond, logger.Nop())
	time.Sleep(5 * time.Millisecond)
	stats := m.Stop()

	assert.Positive(t, stats.PeakGoroutines)
}
