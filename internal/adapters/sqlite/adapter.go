// Package sqlite provides a SQLite-backed implementation of the dataset repository port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Adapter implements ports.DatasetRepository for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.DatasetRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
// ":memory:" keeps every dataset inside the process.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Each pooled connection to ":memory:" would get its own empty database.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// featureColumns is the comma-joined list of feature columns in AllFeatures order.
func featureColumns() string {
	cols := make([]string, len(domain.AllFeatures))
	for i, f := range domain.AllFeatures {
		cols[i] = string(f)
	}
	return strings.Join(cols, ", ")
}

// Save replaces the dataset stored for sessionID.
func (a *Adapter) Save(ctx context.Context, sessionID string, ds domain.Dataset) error {
	// 1. Start Transaction
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 2. Reset any previous dataset for this session
	if _, err := tx.ExecContext(ctx, "DELETE FROM track_rows WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear old rows: %w", err)
	}

	features := make([]string, len(ds.Features))
	for i, f := range ds.Features {
		features[i] = string(f)
	}
	queryDataset := `
		INSERT INTO datasets (session_id, features) VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET features=excluded.features, created_at=CURRENT_TIMESTAMP;
	`
	if _, err := tx.ExecContext(ctx, queryDataset, sessionID, strings.Join(features, ",")); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}

	// 3. Insert rows with their position so Load keeps order
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 11+len(domain.AllFeatures)+1), ", ")
	stmtRow, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO track_rows (
			session_id, position, id, title, album, artist, url, cover_url, preview_url, label, grp,
			%s, estimated
		)
		VALUES (%s)
	`, featureColumns(), placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmtRow.Close()

	for i, r := range ds.Rows {
		args := []any{
			sessionID, i, r.ID, r.Title, r.Album, r.Artist, r.URL, r.CoverURL, r.PreviewURL, r.Label, r.Group,
		}
		for _, f := range domain.AllFeatures {
			v, _ := r.Features.Get(f)
			args = append(args, v)
		}
		args = append(args, r.Features.Estimated)

		if _, err := stmtRow.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to save row %d (%s): %w", i, r.ID, err)
		}
	}

	// 4. Commit Transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

// Load returns the dataset saved for sessionID, or domain.ErrNotFound.
func (a *Adapter) Load(ctx context.Context, sessionID string) (domain.Dataset, error) {
	var features string
	row := a.db.QueryRowContext(ctx, "SELECT features FROM datasets WHERE session_id = ?", sessionID)
	if err := row.Scan(&features); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dataset{}, domain.ErrNotFound
		}
		return domain.Dataset{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	ds := domain.Dataset{Rows: []domain.TrackRow{}, Features: []domain.Feature{}}
	if features != "" {
		for _, name := range strings.Split(features, ",") {
			ds.Features = append(ds.Features, domain.Feature(name))
		}
	}

	rows, err := a.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, title, album, artist, url, cover_url, preview_url, label, grp, %s, estimated
		FROM track_rows
		WHERE session_id = ?
		ORDER BY position ASC
	`, featureColumns()), sessionID)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to load dataset rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.TrackRow
		values := make([]float64, len(domain.AllFeatures))
		dest := []any{
			&r.ID, &r.Title, &r.Album, &r.Artist, &r.URL, &r.CoverURL, &r.PreviewURL, &r.Label, &r.Group,
		}
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &r.Features.Estimated)

		if err := rows.Scan(dest...); err != nil {
			return domain.Dataset{}, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		for i, f := range domain.AllFeatures {
			if err := r.Features.Set(f, values[i]); err != nil {
				return domain.Dataset{}, fmt.Errorf("failed to restore %s: %w", f, err)
			}
		}
		ds.Rows = append(ds.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to iterate dataset rows: %w", err)
	}

	return ds, nil
}

// Delete drops the dataset of sessionID. Deleting a missing session is a no-op.
func (a *Adapter) Delete(ctx context.Context, sessionID string) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM track_rows WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete dataset rows: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, "DELETE FROM datasets WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	// Foreign keys are off by default in SQLite; cascade needs them.
	if _, err := a.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	featureDefs := make([]string, len(domain.AllFeatures))
	for i, f := range domain.AllFeatures {
		featureDefs[i] = fmt.Sprintf("%s REAL NOT NULL DEFAULT 0", f)
	}

	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS datasets (
		session_id TEXT PRIMARY KEY,
		features TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS track_rows (
		session_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		album TEXT NOT NULL DEFAULT '',
		artist TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		cover_url TEXT NOT NULL DEFAULT '',
		preview_url TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL,
		grp TEXT NOT NULL,
		%s,
		estimated BOOLEAN NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, position),
		FOREIGN KEY(session_id) REFERENCES datasets(session_id) ON DELETE CASCADE
	);
	`, strings.Join(featureDefs, ",\n\t\t"))

	_, err := a.db.Exec(query)
	return err
}
