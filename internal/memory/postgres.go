package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mosaicintel/mosaic/pkg/lifecycle"
	"github.com/mosaicintel/mosaic/pkg/repository"
)

type postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres creates a Store backed by the memory_items table. The table
// is provisioned by cmd/migrate; last-write-wins is an upsert.
func NewPostgres(db *sql.DB, logger *slog.Logger) Store {
	return &postgres{
		db:     db,
		logger: logger.With("system", "memory"),
	}
}

func (p *postgres) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("postgres memory store ready")
	return nil
}

func (p *postgres) Put(ctx context.Context, namespace, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", namespace, key, err)
	}

	q := `
		INSERT INTO memory_items(namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()`

	if _, err := p.db.ExecContext(ctx, q, namespace, key, data); err != nil {
		return fmt.Errorf("put %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (p *postgres) Get(ctx context.Context, namespace, key string, out any) error {
	q := `SELECT value FROM memory_items WHERE namespace = $1 AND key = $2`

	var data []byte
	err := p.db.QueryRowContext(ctx, q, namespace, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}

	return json.Unmarshal(data, out)
}

func (p *postgres) Search(ctx context.Context, namespace string) ([]Record, error) {
	q := `
		SELECT key, value, updated_at
		FROM memory_items
		WHERE namespace = $1
		ORDER BY key`

	records, err := repository.QueryMany(ctx, p.db, q, []any{namespace}, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", namespace, err)
	}
	return records, nil
}

func (p *postgres) Delete(ctx context.Context, namespace, key string) error {
	q := `DELETE FROM memory_items WHERE namespace = $1 AND key = $2`

	err := repository.ExecExpectOne(ctx, p.db, q, namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(&r.Key, &r.Value, &r.UpdatedAt)
	return r, err
}
