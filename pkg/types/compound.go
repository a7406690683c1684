// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the mass-lookup pipeline:
// the canonical compound record, the adduct table, search queries and their
// result shapes, and per-stage configuration.
package types

// Compound is the canonical record every source is normalized into.
// (SourceDatabase, SourceID) is globally unique; rows are immutable once
// written and the store is rebuilt wholesale on every ingest run.
type Compound struct {
	// ID is the store-assigned surrogate key (zero until inserted).
	ID int64 `json:"id" yaml:"id"`

	// SourceDatabase is the short identifier of the origin archive
	// (e.g. "HMDB", "ChEBI", "T3DB").
	SourceDatabase string `json:"source_database" yaml:"source_database"`

	// SourceID is the compound's identifier within its source
	// (e.g. "HMDB0000122", "CHEBI:17234").
	SourceID string `json:"source_id" yaml:"source_id"`

	// Name is the compound name preferred by the source normalizer.
	Name string `json:"name" yaml:"name"`

	// Formula is the molecular formula, empty when the source omits it.
	Formula string `json:"formula,omitempty" yaml:"formula,omitempty"`

	// ExactMass is the monoisotopic mass in Da. Always finite; records
	// without a parseable mass are rejected before reaching the store.
	ExactMass float64 `json:"exact_mass" yaml:"exact_mass"`
}

// MassMatch is one hit from an approximate-mass search. NeutralMass is the
// stored exact mass of the matched compound; ObservedMass and Adduct echo
// the query so exported results are self-describing.
type MassMatch struct {
	Source       string  `json:"source" yaml:"source"`
	SourceID     string  `json:"source_id" yaml:"source_id"`
	Name         string  `json:"name" yaml:"name"`
	Formula      string  `json:"formula,omitempty" yaml:"formula,omitempty"`
	NeutralMass  float64 `json:"neutral_mass" yaml:"neutral_mass"`
	ObservedMass float64 `json:"observed_mass" yaml:"observed_mass"`
	MassErrorDa  float64 `json:"mass_error_da" yaml:"mass_error_da"`
	PPMError     float64 `json:"ppm_error" yaml:"ppm_error"`
	Adduct       string  `json:"adduct" yaml:"adduct"`
}

// FormulaMatch is one hit from an exact-formula search.
type FormulaMatch struct {
	Source    string  `json:"source" yaml:"source"`
	SourceID  string  `json:"source_id" yaml:"source_id"`
	Name      string  `json:"name" yaml:"name"`
	Formula   string  `json:"formula,omitempty" yaml:"formula,omitempty"`
	ExactMass float64 `json:"exact_mass" yaml:"exact_mass"`
}

// StoreStats summarizes the compound store: totals, per-source breakdown,
// and the global mass range. MinMass/MaxMass are zero for an empty store.
type StoreStats struct {
	TotalCompounds int            `json:"total_compounds" yaml:"total_compounds"`
	BySource       map[string]int `json:"by_source" yaml:"by_source"`
	MinMass        float64        `json:"min_mass" yaml:"min_mass"`
	MaxMass        float64        `json:"max_mass" yaml:"max_mass"`
}
