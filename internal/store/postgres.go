package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/models"
)

// PostgresBackend persists the snapshot as a JSON document in a
// single-row-per-key table. It does not watch for external changes;
// the periodic recomputation cadence covers date rollover.
type PostgresBackend struct {
	db  *sql.DB
	key string
	log *logrus.Logger
}

// NewPostgresBackend prepares the snapshot table and returns a backend
func NewPostgresBackend(db *sql.DB, key string, log *logrus.Logger) (*PostgresBackend, error) {
	query := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return &PostgresBackend{db: db, key: key, log: log}, nil
}

// Load reads the persisted snapshot, failing closed to the default
// empty snapshot when the stored payload does not parse.
func (b *PostgresBackend) Load(ctx context.Context) (models.FinancialState, error) {
	var data []byte
	query := `SELECT data FROM snapshots WHERE key = $1`
	err := b.db.QueryRowContext(ctx, query, b.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return EmptyState(), nil
	}
	if err != nil {
		return models.FinancialState{}, fmt.Errorf("failed to read snapshot %s: %w", b.key, err)
	}

	var state models.FinancialState
	if err := json.Unmarshal(data, &state); err != nil {
		b.log.Errorf("Discarding malformed snapshot %s: %v", b.key, err)
		return EmptyState(), nil
	}
	return state, nil
}

// Save upserts the snapshot row
func (b *PostgresBackend) Save(ctx context.Context, state models.FinancialState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	query := `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP`
	if _, err := b.db.ExecContext(ctx, query, b.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", b.key, err)
	}
	return nil
}
