// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hmdb streams metabolite records out of an HMDB XML export.
//
// HMDB exports are multi-gigabyte documents, so the reader walks the token
// stream and decodes one <metabolite> subtree at a time; nothing outside the
// current record is ever held in memory.
package hmdb

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Namespace is the XML namespace HMDB publishes under.
const Namespace = "http://www.hmdb.ca"

// recordTag is the element that delimits one metabolite record.
const recordTag = "metabolite"

// Record holds the raw fields extracted from one <metabolite> element.
// Mass is nil when the mass element is absent or its text does not parse
// as a number; deciding what to do about that is the normalizer's job.
type Record struct {
	Accession string
	Name      string
	Formula   string
	Mass      *float64
}

// metabolite mirrors the subset of the HMDB record we extract.
//
// "monisotopic_molecular_weight" is a long-standing typo in the upstream
// export (it is missing the first "o"). It has to be matched as published;
// spelling it correctly here would silently drop every mass in the file.
type metabolite struct {
	Accession string `xml:"accession"`
	Name      string `xml:"name"`
	Formula   string `xml:"chemical_formula"`
	MassText  string `xml:"monisotopic_molecular_weight"`
}

// ErrStop can be returned by a Parse callback to end the stream early
// without Parse reporting an error.
var ErrStop = errors.New("hmdb: stop")

// Parse streams metabolite records from r, invoking fn once per record.
// Each record's element subtree is decoded and released before the next is
// read, so memory use is bounded by the largest single record regardless of
// file size. A callback error aborts the stream and is returned, except
// ErrStop which ends it cleanly.
func Parse(r io.Reader, fn func(Record) error) error {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading XML token: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != recordTag || start.Name.Space != Namespace {
			continue
		}

		var m metabolite
		if err := dec.DecodeElement(&m, &start); err != nil {
			return fmt.Errorf("decoding metabolite record: %w", err)
		}

		if err := fn(newRecord(m)); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

func newRecord(m metabolite) Record {
	rec := Record{
		Accession: strings.TrimSpace(m.Accession),
		Name:      strings.TrimSpace(m.Name),
		Formula:   strings.TrimSpace(m.Formula),
	}
	if text := strings.TrimSpace(m.MassText); text != "" {
		if mass, err := strconv.ParseFloat(text, 64); err == nil {
			rec.Mass = &mass
		}
	}
	return rec
}
