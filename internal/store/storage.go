package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	Institutions interface {
		ReplaceCensusYear(ctx context.Context, year int, rows []Institution) (int64, error)
		CountByCensusYear(ctx context.Context) (map[int]int, error)
	}

	LoadHistory interface {
		InsertLoadHistory(ctx context.Context, history *LoadHistory) error
		GetLatest(ctx context.Context, limit int) ([]LoadHistory, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Institutions: &InstitutionStore{db: db},
		LoadHistory:  &LoadHistoryStore{db: db},
	}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS institutions (
		id BIGSERIAL PRIMARY KEY,
		dataset_id TEXT NOT NULL,
		census_year INTEGER NOT NULL,
		municipality_code BIGINT NOT NULL,
		municipality TEXT NOT NULL,
		capital TEXT NOT NULL,
		organization TEXT NOT NULL,
		network TEXT NOT NULL,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		acronym TEXT NOT NULL,
		maintainer TEXT NOT NULL,
		faculty_total DOUBLE PRECISION NOT NULL DEFAULT 0,
		technical_total DOUBLE PRECISION NOT NULL DEFAULT 0,
		faculty_no_degree DOUBLE PRECISION NOT NULL DEFAULT 0,
		faculty_graduate DOUBLE PRECISION NOT NULL DEFAULT 0,
		faculty_specialization DOUBLE PRECISION NOT NULL DEFAULT 0,
		faculty_master DOUBLE PRECISION NOT NULL DEFAULT 0,
		faculty_doctorate DOUBLE PRECISION NOT NULL DEFAULT 0,
		electronic_books DOUBLE PRECISION NOT NULL DEFAULT 0,
		faculty_female DOUBLE PRECISION NOT NULL DEFAULT 0,
		faculty_male DOUBLE PRECISION NOT NULL DEFAULT 0,
		inserted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS institutions_census_year_idx ON institutions (census_year)`,
	`CREATE TABLE IF NOT EXISTS load_history (
		id BIGSERIAL PRIMARY KEY,
		dataset_id TEXT NOT NULL,
		source_file TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		trigger_type TEXT NOT NULL,
		status TEXT NOT NULL,
		error_kind TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		row_count INTEGER NOT NULL DEFAULT 0,
		warnings TEXT[] NOT NULL DEFAULT '{}',
		loaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
