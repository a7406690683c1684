// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/mass-lookup/internal/store"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

const defaultProgressInterval = 10000

// SourceSummary holds the per-source outcome counters of one ingest run.
type SourceSummary struct {
	Source           string
	Seen             int
	Inserted         int
	SkippedInvalid   int
	SkippedDuplicate int
}

// Skipped returns the combined invalid and duplicate skip count.
func (s SourceSummary) Skipped() int {
	return s.SkippedInvalid + s.SkippedDuplicate
}

// RunSummary holds the outcome of a full ingest run in source order.
type RunSummary struct {
	Sources []SourceSummary
}

// TotalInserted returns the number of compounds written across all sources.
func (r RunSummary) TotalInserted() int {
	var n int
	for _, s := range r.Sources {
		n += s.Inserted
	}
	return n
}

// Run rebuilds the store and ingests every configured source sequentially.
// The store's prior contents are discarded before any source is read. A
// source whose input file is absent contributes zero records and does not
// fail the run; other sources still populate the store. Progress and
// per-source summaries are written to w.
func Run(ctx context.Context, cfg types.IngestConfig, st *store.Store, w io.Writer) (RunSummary, error) {
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = defaultProgressInterval
	}

	if err := st.Rebuild(ctx); err != nil {
		return RunSummary{}, fmt.Errorf("rebuilding store: %w", err)
	}

	var summary RunSummary
	for _, src := range Sources(cfg) {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		s, err := runSource(ctx, src, st, interval, w)
		if err != nil {
			return summary, fmt.Errorf("ingesting %s: %w", src.Name(), err)
		}
		summary.Sources = append(summary.Sources, s)
	}

	fmt.Fprintf(w, "\ningest complete: %d compounds from %d source(s)\n",
		summary.TotalInserted(), len(summary.Sources))
	return summary, nil
}

func runSource(ctx context.Context, src Source, st *store.Store, interval int, w io.Writer) (SourceSummary, error) {
	summary := SourceSummary{Source: src.Name()}

	f, err := os.Open(src.InputPath())
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "%s: input not found at %s, skipping\n", src.Name(), src.InputPath())
			return summary, nil
		}
		return summary, fmt.Errorf("opening %s: %w", src.InputPath(), err)
	}
	defer f.Close()

	fmt.Fprintf(w, "%s: reading %s\n", src.Name(), src.InputPath())

	err = src.Read(f, func(c types.Compound, valid bool) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		summary.Seen++
		switch {
		case !valid:
			summary.SkippedInvalid++
		default:
			inserted, err := st.Insert(ctx, c)
			if err != nil {
				return err
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.SkippedDuplicate++
			}
		}

		if summary.Seen%interval == 0 {
			fmt.Fprintf(w, "  processed %d | inserted %d | skipped %d\n",
				summary.Seen, summary.Inserted, summary.Skipped())
		}
		return nil
	})
	if err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "%s: %d inserted, %d invalid, %d duplicate (of %d seen)\n",
		src.Name(), summary.Inserted, summary.SkippedInvalid, summary.SkippedDuplicate, summary.Seen)
	return summary, nil
}
