// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sdf reads the data blocks of SDF-style multi-record files.
//
// The reader only tokenizes: records are split on the "$$$$" sentinel line,
// "> <FIELD>" headers open a field, and the non-empty lines that follow are
// the field's value. What the field names mean is left entirely to the
// per-source normalizers, which is what lets ChEBI and T3DB share this code.
package sdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// sentinel terminates one record in a multi-record SDF file.
const sentinel = "$$$$"

// Record is the untyped field map of one SDF data block.
type Record map[string]string

// First returns the value of the first key in candidates that is present
// and non-empty. Sources rename fields across revisions, so normalizers
// probe candidates in priority order.
func (r Record) First(candidates ...string) (string, bool) {
	for _, key := range candidates {
		if v, ok := r[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ErrStop can be returned by a Parse callback to end the stream early
// without Parse reporting an error.
var ErrStop = errors.New("sdf: stop")

// Parse streams records from r, invoking fn once per record. Input is
// consumed line by line, never whole-file, so multi-hundred-thousand-record
// exports run in constant memory. Multi-line field values are joined with
// single spaces. Lines before the first data header (the molfile body) are
// ignored. A record with no data fields (e.g. a trailing sentinel) is not
// emitted. A callback error aborts the stream and is returned, except
// ErrStop which ends it cleanly.
func Parse(r io.Reader, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	// SDF lines are short, but synonym fields can run long.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		rec   = Record{}
		field string
		value []string
	)

	flushField := func() {
		if field != "" {
			rec[field] = strings.Join(value, " ")
		}
		field = ""
		value = nil
	}

	emit := func() error {
		flushField()
		if len(rec) == 0 {
			return nil
		}
		out := rec
		rec = Record{}
		return fn(out)
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.TrimSpace(line) == sentinel:
			if err := emit(); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}

		case isHeader(line):
			flushField()
			field = headerField(line)

		case field != "":
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				value = append(value, trimmed)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading SDF input: %w", err)
	}

	// Final record without a trailing sentinel.
	if err := emit(); err != nil && !errors.Is(err, ErrStop) {
		return err
	}
	return nil
}

// isHeader reports whether line is a data header of the form "> <FIELD>".
func isHeader(line string) bool {
	return strings.HasPrefix(line, ">") && strings.Contains(line, "<")
}

// headerField extracts the field name from a data header line. SDF allows
// trailing register tags after the angle-bracketed name; they are ignored.
func headerField(line string) string {
	open := strings.Index(line, "<")
	end := strings.Index(line[open:], ">")
	if end < 0 {
		return strings.TrimSpace(line[open+1:])
	}
	return line[open+1 : open+end]
}
