// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mass-lookup/internal/acquire"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

const defaultDownloadTimeout = 10 * time.Minute

var downloadCmd = &cobra.Command{
	Use:   "download <source|url> [...]",
	Short: "Download bulk source archives into the raw data directory",
	Long: `Download fetches compound archives into data/raw/ ready for ingest.
Targets are either known source names (` + strings.Join(acquire.KnownSources(), ", ") + `)
or direct URLs. HMDB and T3DB gate their bulk exports behind their
websites; download those in a browser and pass the file paths to ingest.

Existing files are not re-downloaded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 10m)")
	downloadCmd.Flags().String("out", "", "output directory (default data/raw)")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultDownloadTimeout
	}
	rawDir := rawDirPath(cmd)

	cfg := types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		RawDir: rawDir,
	}

	client := &http.Client{Timeout: cfg.Timeout}

	for _, target := range args {
		if _, err := acquire.Download(context.Background(), client, target, cfg, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

// rawDirPath resolves the raw archive directory: --out flag, then the
// raw_dir config key, then the default.
func rawDirPath(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("out"); dir != "" {
		return dir
	}
	if dir := viper.GetString("raw_dir"); dir != "" {
		return dir
	}
	return defaultRawDir
}
