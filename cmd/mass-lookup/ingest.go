// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mass-lookup/internal/ingest"
	"github.com/pdiddy/mass-lookup/internal/store"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the compound database from raw source archives",
	Long: `Ingest drops the compound database and rebuilds it from the configured
source files: the HMDB metabolites XML export and the ChEBI and T3DB SDF
exports. Sources whose input files are absent are skipped with a notice;
records failing validation or duplicating an already-stored (source, id)
pair are counted and skipped. There is no incremental update: every run
replaces the previous database wholesale.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("hmdb", "data/raw/hmdb_metabolites.xml", "HMDB metabolites XML export")
	ingestCmd.Flags().String("chebi", "data/raw/ChEBI_complete.sdf", "ChEBI complete SDF export")
	ingestCmd.Flags().String("t3db", "data/raw/toxins.sdf", "T3DB toxins SDF export")
	ingestCmd.Flags().Int("progress-every", 10000, "records between progress lines")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetInt("progress-every")

	cfg := types.IngestConfig{
		DBPath:           dbPath(cmd),
		HMDBPath:         flagOrConfig(cmd, "hmdb", "hmdb_path"),
		ChEBIPath:        flagOrConfig(cmd, "chebi", "chebi_path"),
		T3DBPath:         flagOrConfig(cmd, "t3db", "t3db_path"),
		ProgressInterval: interval,
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = ingest.Run(context.Background(), cfg, st, os.Stdout)
	return err
}
