package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "mass-lookup/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the ingest stage. Empty source paths
// disable the corresponding source; a configured path whose file is absent
// is a per-source skip, not a run failure.
type IngestConfig struct {
	// DBPath is the SQLite database file the run rebuilds.
	DBPath string `json:"db_path" yaml:"db_path"`

	// HMDBPath is the HMDB metabolites XML export.
	HMDBPath string `json:"hmdb_path" yaml:"hmdb_path"`

	// ChEBIPath is the ChEBI complete SDF export.
	ChEBIPath string `json:"chebi_path" yaml:"chebi_path"`

	// T3DBPath is the T3DB toxins SDF export.
	T3DBPath string `json:"t3db_path" yaml:"t3db_path"`

	// ProgressInterval is the record count between progress lines
	// (default 10000).
	ProgressInterval int `json:"progress_interval" yaml:"progress_interval"`
}

// SearchConfig holds settings for the search engine.
type SearchConfig struct {
	// DBPath is the SQLite database file produced by ingest.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults caps query results when positive and the query does
	// not set its own cap; zero leaves results uncapped.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DownloadConfig holds settings for the bulk source-archive downloader.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// RawDir is the directory downloaded archives are written to.
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// MaxRetries is the retry budget for rate-limited requests.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest   IngestConfig   `json:"ingest" yaml:"ingest"`
	Search   SearchConfig   `json:"search" yaml:"search"`
	Download DownloadConfig `json:"download" yaml:"download"`
}
