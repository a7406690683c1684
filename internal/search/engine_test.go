// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pdiddy/mass-lookup/internal/store"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

// testCompounds covers the C6H12O6 isomer family plus neighbors for window
// and ranking checks.
var testCompounds = []types.Compound{
	{SourceDatabase: "HMDB", SourceID: "HMDB0000122", Name: "D-Glucose", Formula: "C6H12O6", ExactMass: 180.0634},
	{SourceDatabase: "HMDB", SourceID: "HMDB0000660", Name: "D-Fructose", Formula: "C6H12O6", ExactMass: 180.0634},
	{SourceDatabase: "ChEBI", SourceID: "CHEBI:28260", Name: "galactose", Formula: "C6H12O6", ExactMass: 180.0634},
	{SourceDatabase: "ChEBI", SourceID: "CHEBI:30911", Name: "sorbitol", Formula: "C6H14O6", ExactMass: 182.0790},
	{SourceDatabase: "T3DB", SourceID: "T3D0001", Name: "Arsenic trioxide", Formula: "As2O3", ExactMass: 197.8067},
	{SourceDatabase: "HMDB", SourceID: "HMDB0000123", Name: "Glycine", Formula: "C2H5NO2", ExactMass: 75.0320},
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "compounds.db")

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range testCompounds {
		if _, err := st.Insert(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	engine, err := NewEngine(types.SearchConfig{DBPath: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func mustLookupAdduct(t *testing.T, label string) types.Adduct {
	t.Helper()
	a, err := types.LookupAdduct(label)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewEngineMissingStore(t *testing.T) {
	_, err := NewEngine(types.SearchConfig{DBPath: filepath.Join(t.TempDir(), "absent.db")})
	if !errors.Is(err, ErrStoreMissing) {
		t.Fatalf("err = %v, want ErrStoreMissing", err)
	}
}

func TestSearchByMassGlucoseProtonated(t *testing.T) {
	engine := testEngine(t)

	// Observed [M+H]+ mass of glucose; neutral ≈ 180.0637.
	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 181.071,
		Tolerance:    0.5,
		Adduct:       mustLookupAdduct(t, "M+H"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no results for glucose window")
	}

	top := results[0]
	if top.Formula != "C6H12O6" {
		t.Errorf("top formula = %q, want a hexose", top.Formula)
	}
	if top.MassErrorDa > 0.001 {
		t.Errorf("top mass error = %v Da, want ≈0.0003", top.MassErrorDa)
	}
	if top.PPMError < 1.0 || top.PPMError > 2.5 {
		t.Errorf("top ppm error = %v, want ≈1.7", top.PPMError)
	}
	if top.ObservedMass != 181.071 || top.Adduct != "[M+H]+" {
		t.Errorf("query echo = %v %q", top.ObservedMass, top.Adduct)
	}

	// Closest match first: every later result has equal or larger error.
	for i := 1; i < len(results); i++ {
		if results[i].MassErrorDa < results[i-1].MassErrorDa {
			t.Errorf("results not ordered by mass error at %d", i)
		}
	}

	// Sorbitol at 182.079 is ~2 Da out and must not appear.
	for _, r := range results {
		if r.SourceID == "CHEBI:30911" {
			t.Error("sorbitol returned despite being outside the window")
		}
	}
}

func TestSearchByMassPPMError(t *testing.T) {
	engine := testEngine(t)

	neutral := 181.071 - 1.007276
	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 181.071,
		Tolerance:    0.5,
		Adduct:       mustLookupAdduct(t, "[M+H]+"),
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		want := math.Abs(r.NeutralMass-neutral) / neutral * 1e6
		if math.Abs(r.PPMError-want) > 1e-9 {
			t.Errorf("ppm error = %v, want %v", r.PPMError, want)
		}
	}
}

func TestSearchByMassWindowIsClosed(t *testing.T) {
	engine := testEngine(t)
	ctx := context.Background()

	// Glycine at 75.0320: place it exactly at each window endpoint. The
	// tolerance is a power of two so the endpoint arithmetic is exact.
	const glycine = 75.0320
	for _, q := range []MassQuery{
		{ObservedMass: glycine + 0.25, Tolerance: 0.25}, // neutral − tol = glycine
		{ObservedMass: glycine - 0.25, Tolerance: 0.25}, // neutral + tol = glycine
	} {
		results, err := engine.SearchByMass(ctx, q)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, r := range results {
			if r.SourceID == "HMDB0000123" {
				found = true
			}
		}
		if !found {
			t.Errorf("compound at exact window endpoint excluded (query %+v)", q)
		}
	}
}

func TestSearchByMassNeutralMode(t *testing.T) {
	engine := testEngine(t)

	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 180.0634,
		Tolerance:    0.01,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want the 3 hexoses", len(results))
	}
	if results[0].MassErrorDa != 0 {
		t.Errorf("exact match error = %v, want 0", results[0].MassErrorDa)
	}
	if results[0].Adduct != "M" {
		t.Errorf("adduct echo = %q, want neutral M", results[0].Adduct)
	}
}

func TestSearchByMassNegativeAdduct(t *testing.T) {
	engine := testEngine(t)

	// Glucose [M-H]- observed at 179.0561; delta is negative so the
	// conversion is still a single subtraction.
	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 179.0561,
		Tolerance:    0.01,
		Adduct:       mustLookupAdduct(t, "[M-H]-"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 hexoses", len(results))
	}
}

func TestSearchByMassSourceFilter(t *testing.T) {
	engine := testEngine(t)

	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 180.0634,
		Tolerance:    0.01,
		Sources:      []string{"ChEBI"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Source != "ChEBI" {
		t.Errorf("filtered results = %+v", results)
	}
}

func TestSearchByMassMaxResults(t *testing.T) {
	engine := testEngine(t)

	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 180.0634,
		Tolerance:    0.01,
		MaxResults:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want cap of 2", len(results))
	}
}

func TestSearchByMassUncappedWithoutMaxResults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "compounds.db")

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 25; i++ {
		c := types.Compound{
			SourceDatabase: "HMDB",
			SourceID:       fmt.Sprintf("HMDB%07d", i),
			Name:           fmt.Sprintf("hexose variant %d", i),
			Formula:        "C6H12O6",
			ExactMass:      180.0634,
		}
		if _, err := st.Insert(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	engine, err := NewEngine(types.SearchConfig{DBPath: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	// A query that does not set MaxResults returns every in-window match.
	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 180.0634,
		Tolerance:    0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 25 {
		t.Errorf("got %d results, want all 25 in-window compounds", len(results))
	}

	// A cap configured on the engine still applies when the query sets none.
	capped, err := NewEngine(types.SearchConfig{DBPath: dbPath, MaxResults: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer capped.Close()

	results, err = capped.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 180.0634,
		Tolerance:    0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 10 {
		t.Errorf("got %d results, want configured cap of 10", len(results))
	}
}

func TestSearchByMassNoResultsIsNotError(t *testing.T) {
	engine := testEngine(t)

	results, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 5000.0,
		Tolerance:    0.1,
	})
	if err != nil {
		t.Fatalf("empty window errored: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestSearchByMassRejectsNegativeTolerance(t *testing.T) {
	engine := testEngine(t)
	if _, err := engine.SearchByMass(context.Background(), MassQuery{
		ObservedMass: 100, Tolerance: -1,
	}); err == nil {
		t.Error("negative tolerance accepted")
	}
}

func TestSearchByFormulaFindsAllIsomers(t *testing.T) {
	engine := testEngine(t)

	results, err := engine.SearchByFormula(context.Background(), FormulaQuery{Formula: "C6H12O6"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d isomers, want 3", len(results))
	}
	if !sort.SliceIsSorted(results, func(i, j int) bool {
		return results[i].ExactMass < results[j].ExactMass
	}) {
		t.Error("results not ordered ascending by exact mass")
	}
}

func TestSearchByFormulaCaseAndWhitespaceInsensitive(t *testing.T) {
	engine := testEngine(t)
	ctx := context.Background()

	exact, err := engine.SearchByFormula(ctx, FormulaQuery{Formula: "C6H12O6"})
	if err != nil {
		t.Fatal(err)
	}
	sloppy, err := engine.SearchByFormula(ctx, FormulaQuery{Formula: "c6 h12 o6"})
	if err != nil {
		t.Fatal(err)
	}

	if len(exact) != len(sloppy) {
		t.Fatalf("result sets differ: %d vs %d", len(exact), len(sloppy))
	}
	for i := range exact {
		if exact[i].SourceID != sloppy[i].SourceID {
			t.Errorf("result %d differs: %s vs %s", i, exact[i].SourceID, sloppy[i].SourceID)
		}
	}
}

func TestSearchByFormulaSourceFilterAndCap(t *testing.T) {
	engine := testEngine(t)

	results, err := engine.SearchByFormula(context.Background(), FormulaQuery{
		Formula:    "C6H12O6",
		Sources:    []string{"HMDB"},
		MaxResults: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Source != "HMDB" {
		t.Errorf("results = %+v", results)
	}
}

func TestSearchByFormulaEmptyRejected(t *testing.T) {
	engine := testEngine(t)
	if _, err := engine.SearchByFormula(context.Background(), FormulaQuery{Formula: "   "}); err == nil {
		t.Error("blank formula accepted")
	}
}

func TestEngineStats(t *testing.T) {
	engine := testEngine(t)

	stats, err := engine.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalCompounds != len(testCompounds) {
		t.Errorf("total = %d, want %d", stats.TotalCompounds, len(testCompounds))
	}
	if stats.BySource["HMDB"] != 3 || stats.BySource["ChEBI"] != 2 || stats.BySource["T3DB"] != 1 {
		t.Errorf("by source = %v", stats.BySource)
	}
	if stats.MinMass != 75.0320 || stats.MaxMass != 197.8067 {
		t.Errorf("mass range = %v - %v", stats.MinMass, stats.MaxMass)
	}
}

func TestNormalizeFormula(t *testing.T) {
	cases := map[string]string{
		"C6H12O6":    "C6H12O6",
		"c6 h12 o6":  "C6H12O6",
		" C6H12O6\t": "C6H12O6",
		"c6h12o6":    "C6H12O6",
	}
	for in, want := range cases {
		if got := NormalizeFormula(in); got != want {
			t.Errorf("NormalizeFormula(%q) = %q, want %q", in, got, want)
		}
	}
}
