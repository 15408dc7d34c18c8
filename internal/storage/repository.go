package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"zenfin/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how entry dates are stored; time-of-day is not meaningful.
const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("not found")

// SQLiteRepository is the durable local store for entries, the user profile,
// voice mappings and preferences.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListEntries implements ledger.EntryStore.
func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount, category, payment_method, entry_date
		FROM entries
		ORDER BY entry_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEntry implements ledger.EntryStore.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, description, amount, category, payment_method, entry_date
		FROM entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return e, err
}

// GetEntries returns the entries with the given ids, skipping unknown ones.
func (r *SQLiteRepository) GetEntries(ctx context.Context, ids []string) ([]core.Entry, error) {
	out := make([]core.Entry, 0, len(ids))
	for _, id := range ids {
		e, err := r.GetEntry(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// SaveEntries implements ledger.EntryStore. The batch is inserted in one
// transaction so an expanded series is never partially applied.
func (r *SQLiteRepository) SaveEntries(ctx context.Context, entries []core.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, description, amount, category, payment_method, entry_date)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Description, e.Amount,
			string(e.Category), string(e.PaymentMethod), e.Date.Format(dateLayout)); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// ReplaceEntry implements ledger.EntryStore.
func (r *SQLiteRepository) ReplaceEntry(ctx context.Context, e core.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE entries
		SET description = ?, amount = ?, category = ?, payment_method = ?, entry_date = ?
		WHERE id = ?`,
		e.Description, e.Amount, string(e.Category), string(e.PaymentMethod),
		e.Date.Format(dateLayout), e.ID)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

// DeleteEntry implements ledger.EntryStore.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// SeedIfEmpty inserts the sample collection on a fresh database so the
// dashboard is not blank on first run.
func (r *SQLiteRepository) SeedIfEmpty(ctx context.Context) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return fmt.Errorf("count entries: %w", err)
	}
	if n > 0 {
		return nil
	}

	today := time.Now()
	samples := []core.Entry{
		{ID: core.NewID(), Description: "Salário Mensal", Amount: 5000, Category: core.CategoryRevenue, PaymentMethod: core.PaymentPix, Date: today},
		{ID: core.NewID(), Description: "Aluguel", Amount: 1500, Category: core.CategoryFixed, PaymentMethod: core.PaymentPix, Date: today},
		{ID: core.NewID(), Description: "Supermercado", Amount: 800, Category: core.CategoryVariable, PaymentMethod: core.PaymentDebitCard, Date: today},
		{ID: core.NewID(), Description: "Tesouro Direto", Amount: 500, Category: core.CategoryInvestment, PaymentMethod: core.PaymentCash, Date: today},
	}
	if err := r.SaveEntries(ctx, samples); err != nil {
		return fmt.Errorf("seed entries: %w", err)
	}
	slog.InfoContext(ctx, "Seeded sample entries", "count", len(samples))
	return nil
}

// Profile implements ledger.SettingsStore. Missing or unreadable data falls
// back to the default profile without surfacing an error.
func (r *SQLiteRepository) Profile(ctx context.Context) core.UserProfile {
	var p core.UserProfile
	err := r.db.QueryRowContext(ctx, `SELECT name, photo_url FROM profile WHERE id = 1`).
		Scan(&p.Name, &p.PhotoURL)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Failed to load profile, using default", "error", err)
		}
		return core.DefaultProfile()
	}
	return p
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, p core.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile (id, name, photo_url) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, photo_url = excluded.photo_url`,
		p.Name, p.PhotoURL)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Voices implements ledger.SettingsStore. The defaults are seeded by
// migration on a fresh database; an empty table means the user removed every
// mapping and stays empty. Only an unreadable table falls back to defaults.
func (r *SQLiteRepository) Voices(ctx context.Context) []core.VoiceMapping {
	rows, err := r.db.QueryContext(ctx, `SELECT description, icon FROM voices ORDER BY description`)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load voice mappings, using defaults", "error", err)
		return core.DefaultVoices()
	}
	defer rows.Close()

	out := []core.VoiceMapping{}
	for rows.Next() {
		var v core.VoiceMapping
		if err := rows.Scan(&v.Description, &v.Icon); err != nil {
			slog.WarnContext(ctx, "Failed to scan voice mapping, using defaults", "error", err)
			return core.DefaultVoices()
		}
		out = append(out, v)
	}
	return out
}

func (r *SQLiteRepository) SaveVoices(ctx context.Context, voices []core.VoiceMapping) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM voices`); err != nil {
		return fmt.Errorf("clear voices: %w", err)
	}
	for _, v := range voices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO voices (description, icon) VALUES (?, ?)
			 ON CONFLICT (description) DO UPDATE SET icon = excluded.icon`,
			v.Description, v.Icon); err != nil {
			return fmt.Errorf("insert voice %q: %w", v.Description, err)
		}
	}
	return tx.Commit()
}

// Preference implements ledger.SettingsStore. Missing keys read as "".
func (r *SQLiteRepository) Preference(ctx context.Context, key string) string {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Failed to load preference", "key", key, "error", err)
		}
		return ""
	}
	return value
}

func (r *SQLiteRepository) SavePreference(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("save preference %q: %w", key, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e       core.Entry
		cat     string
		payment string
		date    string
	)
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &cat, &payment, &date); err != nil {
		return core.Entry{}, err
	}
	e.Category = core.Category(cat)
	e.PaymentMethod = core.PaymentMethod(payment)

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse entry date %q: %w", date, err)
	}
	e.Date = d
	return e, nil
}
