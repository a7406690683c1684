// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store owns the SQLite compound table: schema, whole-run rebuild,
// deduplicated inserts, and read-only statistics.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/mass-lookup/pkg/types"
)

// Store manages the compound SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the compound database at dbPath, creating the
// parent directory and the schema as needed.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for read-only consumers.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS compounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_database TEXT NOT NULL,
			source_id TEXT NOT NULL,
			name TEXT NOT NULL,
			formula TEXT,
			exact_mass REAL NOT NULL,
			UNIQUE(source_database, source_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_compounds_mass ON compounds(exact_mass)`,
		`CREATE INDEX IF NOT EXISTS idx_compounds_formula ON compounds(formula)`,
		`CREATE INDEX IF NOT EXISTS idx_compounds_source ON compounds(source_database)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Rebuild discards all stored compounds and recreates the schema. Every
// ingest run starts here: there is no cross-run merge, a run's output is
// exactly what its inputs contained.
func (s *Store) Rebuild(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS compounds`); err != nil {
		return fmt.Errorf("dropping compounds table: %w", err)
	}
	if err := s.createSchema(); err != nil {
		return fmt.Errorf("recreating schema: %w", err)
	}
	return nil
}

// Insert attempts to store c, returning whether a row was written. A
// (source_database, source_id) collision is the expected duplicate outcome
// and reports inserted=false with a nil error; re-running a writer over the
// same input is therefore safe.
func (s *Store) Insert(ctx context.Context, c types.Compound) (inserted bool, err error) {
	var formula any
	if c.Formula != "" {
		formula = c.Formula
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO compounds (source_database, source_id, name, formula, exact_mass)
		 VALUES (?, ?, ?, ?, ?)`,
		c.SourceDatabase, c.SourceID, c.Name, formula, c.ExactMass,
	)
	if err != nil {
		return false, fmt.Errorf("inserting compound %s/%s: %w", c.SourceDatabase, c.SourceID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert outcome: %w", err)
	}
	return n > 0, nil
}

// Stats returns total and per-source counts and the global mass range.
func (s *Store) Stats(ctx context.Context) (types.StoreStats, error) {
	stats := types.StoreStats{BySource: map[string]int{}}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM compounds`,
	).Scan(&stats.TotalCompounds); err != nil {
		return types.StoreStats{}, fmt.Errorf("counting compounds: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_database, COUNT(*) FROM compounds GROUP BY source_database`)
	if err != nil {
		return types.StoreStats{}, fmt.Errorf("counting by source: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return types.StoreStats{}, fmt.Errorf("scanning source count: %w", err)
		}
		stats.BySource[source] = count
	}
	if err := rows.Err(); err != nil {
		return types.StoreStats{}, err
	}

	if stats.TotalCompounds > 0 {
		if err := s.db.QueryRowContext(ctx,
			`SELECT MIN(exact_mass), MAX(exact_mass) FROM compounds`,
		).Scan(&stats.MinMass, &stats.MaxMass); err != nil {
			return types.StoreStats{}, fmt.Errorf("querying mass range: %w", err)
		}
	}

	return stats, nil
}
