package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lysyi3m/prodwatch/app/prod"
	"github.com/lysyi3m/prodwatch/app/snapshot"
)

var _ snapshot.Store = (*SnapshotRepository)(nil)

// SnapshotRepository stores one snapshot row per prod id.
type SnapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Load(id string) (*prod.Response, error) {
	var payload string
	err := r.db.QueryRow(`SELECT payload FROM snapshots WHERE prod_id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var resp prod.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &resp, nil
}

func (r *SnapshotRepository) Save(id string, resp *prod.Response) error {
	payload, err := resp.Payload()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO snapshots (prod_id, payload, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT (prod_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, id, string(payload))
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) IDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT prod_id FROM snapshots ORDER BY prod_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	return ids, nil
}

func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}
