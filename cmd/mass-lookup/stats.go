// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mass-lookup/internal/search"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show compound database statistics",
	Long: `Stats prints the total compound count, the per-source breakdown, and
the global exact-mass range of the ingested database.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output statistics as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	engine, err := search.NewEngine(types.SearchConfig{DBPath: dbPath(cmd)})
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return search.WriteJSON(os.Stdout, stats)
	}

	fmt.Printf("Total compounds: %d\n", stats.TotalCompounds)

	sources := make([]string, 0, len(stats.BySource))
	for s := range stats.BySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	for _, s := range sources {
		fmt.Printf("  %-8s %d\n", s, stats.BySource[s])
	}

	if stats.TotalCompounds > 0 {
		fmt.Printf("Mass range: %.4f - %.4f Da\n", stats.MinMass, stats.MaxMass)
	}
	return nil
}
