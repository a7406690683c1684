// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search serves read-only lookups over the compound store:
// mass-tolerance windows with adduct correction, exact-formula equality,
// and store statistics.
package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/mass-lookup/pkg/types"
)

// ErrStoreMissing indicates the compound database does not exist. It is a
// setup-ordering fault (ingest has not produced a store), reported from
// NewEngine so callers can tell it apart from a query that legitimately
// matched nothing.
var ErrStoreMissing = errors.New("compound database not found")

// Engine answers queries against an ingested compound store. The store is
// never mutated after ingest, so an Engine is safe for concurrent use.
type Engine struct {
	db *sql.DB

	// maxResults is the configured result cap; zero or negative means
	// results are unlimited unless the query sets its own cap.
	maxResults int
}

// NewEngine opens the compound database named by cfg. A missing database
// file returns an error wrapping ErrStoreMissing.
func NewEngine(cfg types.SearchConfig) (*Engine, error) {
	if _, err := os.Stat(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s (run `mass-lookup ingest` first)", ErrStoreMissing, cfg.DBPath)
		}
		return nil, fmt.Errorf("checking database: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_query_only=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Engine{db: db, maxResults: cfg.MaxResults}, nil
}

// Close releases the database connection.
func (e *Engine) Close() error {
	return e.db.Close()
}

// MassQuery holds the parameters of an approximate-mass search.
type MassQuery struct {
	// ObservedMass is the measured m/z value.
	ObservedMass float64

	// Tolerance is the symmetric window half-width in Da; the window is
	// closed at both endpoints.
	Tolerance float64

	// Adduct converts the observed mass to a neutral mass. The zero
	// value is the neutral no-adjustment mode.
	Adduct types.Adduct

	// Sources restricts results to these source databases when non-empty.
	Sources []string

	// MaxResults caps the result count when positive. When zero, the
	// engine's configured cap applies, if any; otherwise all matches
	// within the window are returned.
	MaxResults int
}

// FormulaQuery holds the parameters of an exact-formula search.
type FormulaQuery struct {
	// Formula is compared case- and whitespace-insensitively.
	Formula string

	Sources    []string
	MaxResults int
}

// SearchByMass returns compounds whose exact mass lies within the closed
// interval [neutral−tolerance, neutral+tolerance], where neutral is the
// observed mass minus the adduct's mass delta. Results are ordered by
// absolute mass error ascending, closest match first.
func (e *Engine) SearchByMass(ctx context.Context, q MassQuery) ([]types.MassMatch, error) {
	if q.Tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %g", q.Tolerance)
	}

	neutral := q.ObservedMass - q.Adduct.MassDelta
	if neutral <= 0 {
		return nil, fmt.Errorf("neutral mass %g is not positive (observed %g, adduct %s)",
			neutral, q.ObservedMass, q.Adduct.Label)
	}

	var qb strings.Builder
	qb.WriteString(
		`SELECT source_database, source_id, name, formula, exact_mass
		 FROM compounds
		 WHERE exact_mass BETWEEN ? AND ?`)
	args := []any{neutral - q.Tolerance, neutral + q.Tolerance}

	args = appendSourceFilter(&qb, args, q.Sources)
	qb.WriteString(` ORDER BY ABS(exact_mass - ?) ASC`)
	args = append(args, neutral)
	args = e.appendLimit(&qb, args, q.MaxResults)

	rows, err := e.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying by mass: %w", err)
	}
	defer rows.Close()

	adduct := q.Adduct.Label
	if adduct == "" {
		adduct = types.AdductNone.Label
	}

	var results []types.MassMatch
	for rows.Next() {
		var (
			m       types.MassMatch
			formula sql.NullString
		)
		if err := rows.Scan(&m.Source, &m.SourceID, &m.Name, &formula, &m.NeutralMass); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		m.Formula = formula.String
		m.ObservedMass = q.ObservedMass
		m.MassErrorDa = math.Abs(m.NeutralMass - neutral)
		m.PPMError = m.MassErrorDa / neutral * 1e6
		m.Adduct = adduct
		results = append(results, m)
	}
	return results, rows.Err()
}

// SearchByFormula returns compounds whose formula equals the query formula
// after both sides are case-folded and stripped of whitespace. Results are
// ordered by exact mass ascending.
func (e *Engine) SearchByFormula(ctx context.Context, q FormulaQuery) ([]types.FormulaMatch, error) {
	normalized := NormalizeFormula(q.Formula)
	if normalized == "" {
		return nil, fmt.Errorf("formula is empty")
	}

	var qb strings.Builder
	qb.WriteString(
		`SELECT source_database, source_id, name, formula, exact_mass
		 FROM compounds
		 WHERE UPPER(REPLACE(formula, ' ', '')) = ?`)
	args := []any{normalized}

	args = appendSourceFilter(&qb, args, q.Sources)
	qb.WriteString(` ORDER BY exact_mass ASC`)
	args = e.appendLimit(&qb, args, q.MaxResults)

	rows, err := e.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying by formula: %w", err)
	}
	defer rows.Close()

	var results []types.FormulaMatch
	for rows.Next() {
		var (
			m       types.FormulaMatch
			formula sql.NullString
		)
		if err := rows.Scan(&m.Source, &m.SourceID, &m.Name, &formula, &m.ExactMass); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		m.Formula = formula.String
		results = append(results, m)
	}
	return results, rows.Err()
}

// Stats returns total and per-source compound counts and the global mass
// range. Pure read, no side effects.
func (e *Engine) Stats(ctx context.Context) (types.StoreStats, error) {
	stats := types.StoreStats{BySource: map[string]int{}}

	if err := e.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM compounds`,
	).Scan(&stats.TotalCompounds); err != nil {
		return types.StoreStats{}, fmt.Errorf("counting compounds: %w", err)
	}

	rows, err := e.db.QueryContext(ctx,
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
		if err := e.db.QueryRowContext(ctx,
			`SELECT MIN(exact_mass), MAX(exact_mass) FROM compounds`,
		).Scan(&stats.MinMass, &stats.MaxMass); err != nil {
			return types.StoreStats{}, fmt.Errorf("querying mass range: %w", err)
		}
	}

	return stats, nil
}

// NormalizeFormula upper-cases formula and strips all whitespace, the same
// normalization applied to the stored side of the comparison.
func NormalizeFormula(formula string) string {
	return strings.ToUpper(strings.Join(strings.Fields(formula), ""))
}

func appendSourceFilter(qb *strings.Builder, args []any, sources []string) []any {
	if len(sources) == 0 {
		return args
	}
	qb.WriteString(` AND source_database IN (?` + strings.Repeat(",?", len(sources)-1) + `)`)
	for _, s := range sources {
		args = append(args, s)
	}
	return args
}

func (e *Engine) appendLimit(qb *strings.Builder, args []any, maxResults int) []any {
	if maxResults <= 0 {
		maxResults = e.maxResults
	}
	if maxResults <= 0 {
		return args
	}
	qb.WriteString(` LIMIT ?`)
	return append(args, maxResults)
}
