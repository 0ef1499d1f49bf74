package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type InstitutionStore struct {
	db *sqlx.DB
}

// insertBatchSize keeps each multi-row INSERT under the 65535 bind parameter
// limit of the Postgres protocol.
const insertBatchSize = 500

// ReplaceCensusYear deletes the rows of year and inserts rows in a single
// transaction. It returns the number of inserted rows.
func (is *InstitutionStore) ReplaceCensusYear(ctx context.Context, year int, rows []Institution) (int64, error) {
	tx, err := is.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM institutions WHERE census_year = $1`, year); err != nil {
		return 0, fmt.Errorf("failed to delete census year %d: %w", year, err)
	}

	query := `INSERT INTO institutions (
		dataset_id,
		census_year,
		municipality_code,
		municipality,
		capital,
		organization,
		network,
		category,
		name,
		acronym,
		maintainer,
		faculty_total,
		technical_total,
		faculty_no_degree,
		faculty_graduate,
		faculty_specialization,
		faculty_master,
		faculty_doctorate,
		electronic_books,
		faculty_female,
		faculty_male
	) VALUES (
		:dataset_id,
		:census_year,
		:municipality_code,
		:municipality,
		:capital,
		:organization,
		:network,
		:category,
		:name,
		:acronym,
		:maintainer,
		:faculty_total,
		:technical_total,
		:faculty_no_degree,
		:faculty_graduate,
		:faculty_specialization,
		:faculty_master,
		:faculty_doctorate,
		:electronic_books,
		:faculty_female,
		:faculty_male
	)`

	var inserted int64
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		result, err := tx.NamedExecContext(ctx, query, rows[start:end])
		if err != nil {
			return inserted, fmt.Errorf("failed to insert institutions: %w", err)
		}
		n, _ := result.RowsAffected()
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit institutions: %w", err)
	}
	return inserted, nil
}

func (is *InstitutionStore) CountByCensusYear(ctx context.Context) (map[int]int, error) {
	query := `
	SELECT census_year, COUNT(*)
	FROM institutions
	GROUP BY census_year
	ORDER BY census_year`

	rows, err := is.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count institutions: %w", err)
	}
	defer rows.Close()

	result := make(map[int]int)
	for rows.Next() {
		var year, count int
		if err := rows.Scan(&year, &count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result[year] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return result, nil
}
