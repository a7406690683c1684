// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mass-lookup/internal/search"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Query the compound database by mass or formula",
	Long: `Search runs read-only queries against an ingested compound database.
Use "search mass" for approximate-mass lookup with adduct correction, or
"search formula" for exact-formula lookup.`,
}

var searchMassCmd = &cobra.Command{
	Use:   "mass <observed-mass>",
	Short: "Find compounds within a mass-tolerance window",
	Long: `Mass converts the observed mass to a neutral mass by subtracting the
selected adduct's mass delta, then returns every compound whose exact mass
lies within the closed tolerance window around it, closest match first.

Supported adducts: [M+H]+, [M+Na]+, [M+K]+, [M+NH4]+ (positive),
[M-H]-, [M+Cl]-, [M+HCOO]- (negative), and M for no adjustment.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchMass,
}

var searchFormulaCmd = &cobra.Command{
	Use:   "formula <formula>",
	Short: "Find compounds with an exactly matching formula",
	Long: `Formula compares the given molecular formula against stored formulas,
ignoring case and whitespace, and returns matches ordered by exact mass.
All isomers sharing the formula are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchFormula,
}

func init() {
	searchMassCmd.Flags().Float64("tolerance", 0.5, "symmetric mass tolerance in Da")
	searchMassCmd.Flags().String("adduct", "M", "ionization adduct, e.g. M+H or [M-H]-")

	for _, c := range []*cobra.Command{searchMassCmd, searchFormulaCmd} {
		c.Flags().StringSlice("source", nil, "restrict to source databases (e.g. HMDB,ChEBI)")
		c.Flags().Int("max-results", 0, "maximum results (0 for unlimited)")
		c.Flags().Bool("json", false, "output results as JSON")
		c.Flags().Bool("yaml", false, "output results as YAML")
		c.Flags().String("csv", "", "write results as CSV to this file")
	}

	searchCmd.AddCommand(searchMassCmd)
	searchCmd.AddCommand(searchFormulaCmd)
	rootCmd.AddCommand(searchCmd)
}

func newEngine(cmd *cobra.Command) (*search.Engine, error) {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	cfg := types.SearchConfig{DBPath: dbPath(cmd)}
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	return search.NewEngine(cfg)
}

func runSearchMass(cmd *cobra.Command, args []string) error {
	observed, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid mass %q: %w", args[0], err)
	}

	tolerance, _ := cmd.Flags().GetFloat64("tolerance")
	adductLabel, _ := cmd.Flags().GetString("adduct")
	sources, _ := cmd.Flags().GetStringSlice("source")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	adduct, err := types.LookupAdduct(adductLabel)
	if err != nil {
		return err
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.SearchByMass(context.Background(), search.MassQuery{
		ObservedMass: observed,
		Tolerance:    tolerance,
		Adduct:       adduct,
		Sources:      sources,
		MaxResults:   maxResults,
	})
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		return writeCSVFile(path, func(f *os.File) error {
			return search.WriteMassCSV(f, results)
		})
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return search.WriteJSON(os.Stdout, results)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		return search.WriteYAML(os.Stdout, results)
	}

	printMassResults(observed, adduct, results)
	return nil
}

func runSearchFormula(cmd *cobra.Command, args []string) error {
	sources, _ := cmd.Flags().GetStringSlice("source")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.SearchByFormula(context.Background(), search.FormulaQuery{
		Formula:    args[0],
		Sources:    sources,
		MaxResults: maxResults,
	})
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		return writeCSVFile(path, func(f *os.File) error {
			return search.WriteFormulaCSV(f, results)
		})
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return search.WriteJSON(os.Stdout, results)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		return search.WriteYAML(os.Stdout, results)
	}

	printFormulaResults(args[0], results)
	return nil
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func printMassResults(observed float64, adduct types.Adduct, results []types.MassMatch) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	neutral := observed - adduct.MassDelta
	fmt.Printf("Observed %.4f Da as %s -> neutral %.4f Da, %d match(es)\n\n",
		observed, adduct.Label, neutral, len(results))

	fmt.Printf("%-8s  %-15s  %-38s  %-15s  %-12s  %-11s  %s\n",
		"Source", "ID", "Name", "Formula", "Neutral", "Error (Da)", "Error (ppm)")
	fmt.Println(strings.Repeat("-", 115))

	for _, r := range results {
		fmt.Printf("%-8s  %-15s  %-38s  %-15s  %-12.4f  %-11.4f  %.2f\n",
			r.Source, r.SourceID, truncate(r.Name, 38), orNA(r.Formula),
			r.NeutralMass, r.MassErrorDa, r.PPMError)
	}
}

func printFormulaResults(formula string, results []types.FormulaMatch) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("Formula %s, %d match(es)\n\n", search.NormalizeFormula(formula), len(results))
	fmt.Printf("%-8s  %-15s  %-40s  %-15s  %s\n",
		"Source", "ID", "Name", "Formula", "Exact Mass")
	fmt.Println(strings.Repeat("-", 95))

	for _, r := range results {
		fmt.Printf("%-8s  %-15s  %-40s  %-15s  %.4f\n",
			r.Source, r.SourceID, truncate(r.Name, 40), orNA(r.Formula), r.ExactMass)
	}
}

// truncate shortens s to n display runes, not bytes, so multibyte names
// are never cut mid-rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
