// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns raw source records into canonical compounds and
// writes them to the store, counting every outcome per source.
package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/mass-lookup/internal/hmdb"
	"github.com/pdiddy/mass-lookup/internal/sdf"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

// ChEBI SDF field names. "Formulae" and "Monoisotopic Mass" are the current
// export vocabulary; the unsuffixed variants appear in older releases, so
// both are probed in priority order.
var (
	chebiIDFields      = []string{"ChEBI ID"}
	chebiNameFields    = []string{"ChEBI Name", "Synonyms"}
	chebiFormulaFields = []string{"Formulae", "Formula"}
	chebiMassFields    = []string{"Monoisotopic Mass", "Mass"}
)

// T3DB SDF field names. The systematic IUPAC name is preferred over the
// common name; MONO_MASS over the older MONOISOTOPIC_WEIGHT.
var (
	t3dbIDFields      = []string{"DATABASE_ID"}
	t3dbNameFields    = []string{"JCHEM_TRADITIONAL_IUPAC", "GENERIC_NAME"}
	t3dbFormulaFields = []string{"JCHEM_FORMULA", "FORMULA"}
	t3dbMassFields    = []string{"MONO_MASS", "MONOISOTOPIC_WEIGHT"}
)

// normalizeHMDB maps a raw HMDB record to the canonical shape. A record
// missing its accession, name, or a parsed mass is rejected.
func normalizeHMDB(rec hmdb.Record) (types.Compound, bool) {
	if rec.Accession == "" || rec.Name == "" || rec.Mass == nil {
		return types.Compound{}, false
	}
	return newCompound("HMDB", rec.Accession, rec.Name, rec.Formula, *rec.Mass)
}

// normalizeChEBI maps a raw ChEBI SDF block to the canonical shape.
func normalizeChEBI(rec sdf.Record) (types.Compound, bool) {
	return normalizeSDF(rec, "ChEBI", chebiIDFields, chebiNameFields, chebiFormulaFields, chebiMassFields)
}

// normalizeT3DB maps a raw T3DB SDF block to the canonical shape.
func normalizeT3DB(rec sdf.Record) (types.Compound, bool) {
	return normalizeSDF(rec, "T3DB", t3dbIDFields, t3dbNameFields, t3dbFormulaFields, t3dbMassFields)
}

func normalizeSDF(rec sdf.Record, source string, idFields, nameFields, formulaFields, massFields []string) (types.Compound, bool) {
	id, ok := rec.First(idFields...)
	if !ok {
		return types.Compound{}, false
	}
	name, ok := rec.First(nameFields...)
	if !ok {
		return types.Compound{}, false
	}

	massText, ok := rec.First(massFields...)
	if !ok {
		return types.Compound{}, false
	}
	mass, err := strconv.ParseFloat(strings.TrimSpace(massText), 64)
	if err != nil {
		return types.Compound{}, false
	}

	formula, _ := rec.First(formulaFields...)
	return newCompound(source, id, name, formula, mass)
}

// newCompound applies the source-independent validation: the mass must be
// finite and the formula, if present, must not denote an indefinite polymer.
func newCompound(source, id, name, formula string, mass float64) (types.Compound, bool) {
	if math.IsNaN(mass) || math.IsInf(mass, 0) {
		return types.Compound{}, false
	}
	formula = strings.TrimSpace(formula)
	if isPolymerFormula(formula) {
		return types.Compound{}, false
	}
	return types.Compound{
		SourceDatabase: source,
		SourceID:       strings.TrimSpace(id),
		Name:           strings.TrimSpace(name),
		Formula:        formula,
		ExactMass:      mass,
	}, true
}

// isPolymerFormula reports whether formula uses repeat-unit notation like
// "(C6H10O5)n" or "(C2F4)n+1". Such formulas describe an indefinite polymer
// with no single exact mass, so they are kept out of the mass index.
func isPolymerFormula(formula string) bool {
	if !strings.Contains(formula, "(") {
		return false
	}
	idx := strings.Index(formula, ")n")
	return idx >= 0
}
