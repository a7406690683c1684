// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mass-lookup/pkg/types"
)

// WriteMassCSV writes mass-search results as CSV with a header row.
func WriteMassCSV(w io.Writer, results []types.MassMatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"source", "source_id", "name", "formula",
		"neutral_mass", "observed_mass", "mass_error_da", "ppm_error", "adduct",
	}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write([]string{
			r.Source, r.SourceID, r.Name, r.Formula,
			formatMass(r.NeutralMass), formatMass(r.ObservedMass),
			formatMass(r.MassErrorDa), strconv.FormatFloat(r.PPMError, 'f', 2, 64),
			r.Adduct,
		}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFormulaCSV writes formula-search results as CSV with a header row.
func WriteFormulaCSV(w io.Writer, results []types.FormulaMatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "source_id", "name", "formula", "exact_mass"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write([]string{
			r.Source, r.SourceID, r.Name, r.Formula, formatMass(r.ExactMass),
		}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func formatMass(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
