// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mass-lookup CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultDBPath    = "database/compounds.db"
	defaultRawDir    = "data/raw"
	defaultUserAgent = "mass-lookup/0.1"
)

// rootCmd is the base command for the mass-lookup CLI.
var rootCmd = &cobra.Command{
	Use:   "mass-lookup",
	Short: "Build and query a multi-source compound mass database",
	Long: `mass-lookup ingests chemical compound reference archives (HMDB, ChEBI,
T3DB) into a unified SQLite database and answers approximate-mass and
exact-formula lookups against it.

Mass searches correct the observed mass for a chosen ionization adduct,
select matches within a symmetric tolerance window, and rank them by
absolute mass error. Formula searches compare normalized formulas for
equality. Use the subcommands ingest, search, stats, and download.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mass-lookup.yaml or ~/.config/mass-lookup/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "compound database file (default database/compounds.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mass-lookup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mass-lookup"))
		}
	}

	viper.SetDefault("db_path", defaultDBPath)
	viper.SetDefault("raw_dir", defaultRawDir)

	viper.SetEnvPrefix("MASS_LOOKUP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the database path: --db flag, then config, then default.
func dbPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	if path := viper.GetString("db_path"); path != "" {
		return path
	}
	return defaultDBPath
}

// flagOrConfig resolves a string setting with the same precedence as
// dbPath: an explicitly set flag, then the config key, then the flag's
// default value.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetString(flag)
		return value
	}
	if value := viper.GetString(key); value != "" {
		return value
	}
	value, _ := cmd.Flags().GetString(flag)
	return value
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
