// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"io"

	"github.com/pdiddy/mass-lookup/internal/hmdb"
	"github.com/pdiddy/mass-lookup/internal/sdf"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

// Source is one compound archive: a streaming reader composed with its
// normalizer. Read invokes emit once per raw record with the normalized
// compound and whether the record passed validation; emit errors abort
// the stream.
type Source interface {
	// Name is the short source identifier stored in source_database.
	Name() string

	// InputPath is the raw input file this source reads.
	InputPath() string

	// Read streams records from r through the source's normalizer.
	Read(r io.Reader, emit func(c types.Compound, valid bool) error) error
}

// hmdbSource reads the HMDB metabolites XML export.
type hmdbSource struct {
	path string
}

func (s hmdbSource) Name() string      { return "HMDB" }
func (s hmdbSource) InputPath() string { return s.path }

func (s hmdbSource) Read(r io.Reader, emit func(types.Compound, bool) error) error {
	return hmdb.Parse(r, func(rec hmdb.Record) error {
		c, ok := normalizeHMDB(rec)
		return emit(c, ok)
	})
}

// sdfSource reads an SDF export; the normalizer carries the per-source
// field semantics, everything else is shared.
type sdfSource struct {
	name      string
	path      string
	normalize func(sdf.Record) (types.Compound, bool)
}

func (s sdfSource) Name() string      { return s.name }
func (s sdfSource) InputPath() string { return s.path }

func (s sdfSource) Read(r io.Reader, emit func(types.Compound, bool) error) error {
	return sdf.Parse(r, func(rec sdf.Record) error {
		c, ok := s.normalize(rec)
		return emit(c, ok)
	})
}

// Sources builds the source list for cfg in ingest order. Sources with an
// empty configured path are omitted.
func Sources(cfg types.IngestConfig) []Source {
	var sources []Source
	if cfg.HMDBPath != "" {
		sources = append(sources, hmdbSource{path: cfg.HMDBPath})
	}
	if cfg.ChEBIPath != "" {
		sources = append(sources, sdfSource{name: "ChEBI", path: cfg.ChEBIPath, normalize: normalizeChEBI})
	}
	if cfg.T3DBPath != "" {
		sources = append(sources, sdfSource{name: "T3DB", path: cfg.T3DBPath, normalize: normalizeT3DB})
	}
	return sources
}
