package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type LoadHistoryStore struct {
	db *sqlx.DB
}

func (lh *LoadHistoryStore) InsertLoadHistory(ctx context.Context, history *LoadHistory) error {
	query := `INSERT INTO load_history (
		dataset_id,
		source_file,
		source_hash,
		trigger_type,
		status,
		error_kind,
		message,
		row_count,
		warnings
	) VALUES (
		:dataset_id,
		:source_file,
		:source_hash,
		:trigger_type,
		:status,
		:error_kind,
		:message,
		:row_count,
		:warnings
	) RETURNING id, loaded_at`

	if history.Warnings == nil {
		history.Warnings = []string{}
	}

	rows, err := lh.db.NamedQueryContext(ctx, query, history)
	if err != nil {
		return fmt.Errorf("failed to insert load history: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&history.ID, &history.LoadedAt); err != nil {
			return fmt.Errorf("failed to scan load history id: %w", err)
		}
	}
	return rows.Err()
}

func (lh *LoadHistoryStore) GetLatest(ctx context.Context, limit int) ([]LoadHistory, error) {
	query := `
	SELECT
		id, dataset_id, source_file, source_hash, trigger_type, status,
		error_kind, message, row_count, warnings, loaded_at
	FROM
		load_history
	ORDER BY
		loaded_at DESC, id DESC
	LIMIT $1`

	var result []LoadHistory
	if err := lh.db.SelectContext(ctx, &result, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query load history: %w", err)
	}
	return result, nil
}
