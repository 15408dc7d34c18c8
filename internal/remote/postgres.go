// Package remote implements the remote-sync targets: a Postgres store with
// idempotent upsert by id, and a spreadsheet export. The storage schema keeps
// the Portuguese column names of the original database (descricao, data,
// categoria, metodo_pagamento, valor); all mapping back to the in-memory
// entry shape lives here.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zenfin/internal/core"
)

const upsertSQL = `
	INSERT INTO gastos (id, descricao, data, categoria, metodo_pagamento, valor, sincronizado_em)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (id) DO UPDATE SET
		descricao = EXCLUDED.descricao,
		valor = EXCLUDED.valor,
		categoria = EXCLUDED.categoria`

// PostgresSyncer pushes the entry collection to a remote Postgres table.
type PostgresSyncer struct {
	pool *pgxpool.Pool
}

func NewPostgresSyncer(ctx context.Context, databaseURL string) (*PostgresSyncer, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresSyncer{pool: pool}, nil
}

func (s *PostgresSyncer) Close() {
	s.pool.Close()
}

// EnsureSchema creates the remote table when it does not exist yet.
func (s *PostgresSyncer) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gastos (
			id TEXT PRIMARY KEY,
			descricao TEXT NOT NULL,
			data DATE NOT NULL,
			categoria TEXT NOT NULL,
			metodo_pagamento TEXT NOT NULL,
			valor DOUBLE PRECISION NOT NULL,
			sincronizado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure gastos table: %w", err)
	}
	return nil
}

// Upsert implements ledger.RemoteSyncer. The whole collection goes out as one
// batch in a single round trip; conflict handling stays per row, so the call
// is idempotent and last-write-wins by id.
func (s *PostgresSyncer) Upsert(ctx context.Context, entries []core.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertSQL, e.ID, e.Description, e.Date, string(e.Category),
			string(e.PaymentMethod), e.Amount)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert entry %s: %w", entries[i].ID, err)
		}
	}

	slog.InfoContext(ctx, "Upserted entries to Postgres", "count", len(entries))
	return nil
}

// Delete removes the given ids from the remote table. Unknown ids are not an
// error; a delete replayed after a crash must succeed.
func (s *PostgresSyncer) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`DELETE FROM gastos WHERE id = $1`, id)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range ids {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("delete entry %s: %w", ids[i], err)
		}
	}

	slog.InfoContext(ctx, "Deleted entries from Postgres", "count", len(ids))
	return nil
}

// Load reads the remote collection back, newest first, mapping the storage
// column names onto the entry shape.
func (s *PostgresSyncer) Load(ctx context.Context) ([]core.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, descricao, data, categoria, metodo_pagamento, valor
		FROM gastos
		ORDER BY data DESC`)
	if err != nil {
		return nil, fmt.Errorf("query gastos: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var (
			id, descricao, categoria, metodo string
			data                             time.Time
			valor                            float64
		)
		if err := rows.Scan(&id, &descricao, &data, &categoria, &metodo, &valor); err != nil {
			return nil, fmt.Errorf("scan gasto: %w", err)
		}
		out = append(out, mapRow(id, descricao, data, categoria, metodo, valor))
	}
	return out, rows.Err()
}

// mapRow converts one storage row to the canonical entry shape.
func mapRow(id, descricao string, data time.Time, categoria, metodo string, valor float64) core.Entry {
	return core.Entry{
		ID:            id,
		Description:   descricao,
		Date:          data,
		Category:      core.Category(categoria),
		PaymentMethod: core.PaymentMethod(metodo),
		Amount:        valor,
	}
}
