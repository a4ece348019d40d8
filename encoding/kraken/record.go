// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package kraken parses per-read classifier output in the kraken2 format:
//
//   C<TAB>read_id<TAB>Escherichia coli (taxid 562)<TAB>151|151<TAB>562:12 A:3 |:| 0:40
//
// Column 3 must carry the taxon name (kraken2 --use-names). Hit tokens are
// "taxid:count" windows; "A" (ambiguous bases) and "|" (the boundary between
// mates) tokens are not evidence for any taxon and are dropped.
package kraken

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Hit is one run of consecutive k-mer windows mapped to the same taxid.
type Hit struct {
	Taxid int
	Count int
}

// Record is one parsed classifier output line.
type Record struct {
	// Classified is true for "C" lines.
	Classified bool
	ReadID     string
	// Label is the raw third column, e.g. "Escherichia coli (taxid 562)".
	Label string
	// Taxid is the taxon the classifier assigned the read to. 0 means
	// unclassified.
	Taxid int
	// Length is the raw length column. Paired output uses "len1|len2".
	Length string
	// Hits is the k-mer evidence in read order, without ambiguous-base and
	// mate-boundary tokens.
	Hits []Hit
}

// HitTaxids returns the distinct taxids in r.Hits in order of first
// appearance.
func (r *Record) HitTaxids() []int {
	seen := make(map[int]struct{}, len(r.Hits))
	ids := make([]int, 0, len(r.Hits))
	for _, h := range r.Hits {
		if _, ok := seen[h.Taxid]; ok {
			continue
		}
		seen[h.Taxid] = struct{}{}
		ids = append(ids, h.Taxid)
	}
	return ids
}

// UnparsableAssignmentError is returned when the label column does not end in
// "(taxid N)".
type UnparsableAssignmentError struct {
	Line string
}

func (e *UnparsableAssignmentError) Error() string {
	return fmt.Sprintf("kraken: no (taxid N) in assignment: %q", e.Line)
}

// MalformedLineError is returned for lines with the wrong number of columns
// or a bad hit token.
type MalformedLineError struct {
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("kraken: %s: %q", e.Reason, e.Line)
}

const (
	nColumns       = 5
	ambiguousToken = "A"
	mateBoundary   = "|"
)

var assignmentRE = regexp.MustCompile(`^.*\(taxid ([0-9]+)\)$`)

// Parse parses one classifier output line. The line must not include the
// trailing newline. Parse reuses nothing and is safe to call concurrently.
func Parse(line string) (Record, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != nColumns {
		return Record{}, &MalformedLineError{Line: line, Reason: fmt.Sprintf("expected %d columns, found %d", nColumns, len(cols))}
	}
	m := assignmentRE.FindStringSubmatch(cols[2])
	if m == nil {
		return Record{}, &UnparsableAssignmentError{Line: line}
	}
	taxid, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}, &UnparsableAssignmentError{Line: line}
	}
	rec := Record{
		Classified: cols[0] == "C",
		ReadID:     cols[1],
		Label:      cols[2],
		Taxid:      taxid,
		Length:     cols[3],
	}
	if rec.Hits, err = parseHits(cols[4]); err != nil {
		return Record{}, &MalformedLineError{Line: line, Reason: err.Error()}
	}
	return rec, nil
}

// parseHits parses the space-separated "taxid:count" column.
func parseHits(s string) ([]Hit, error) {
	tokens := strings.Fields(s)
	hits := make([]Hit, 0, len(tokens))
	for _, tok := range tokens {
		colon := strings.IndexByte(tok, ':')
		if colon < 0 {
			return nil, fmt.Errorf("hit token %q has no ':'", tok)
		}
		id := tok[:colon]
		if id == ambiguousToken || id == mateBoundary {
			continue
		}
		taxid, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("hit token %q: bad taxid", tok)
		}
		count, err := strconv.Atoi(tok[colon+1:])
		if err != nil {
			return nil, fmt.Errorf("hit token %q: bad count", tok)
		}
		hits = append(hits, Hit{Taxid: taxid, Count: count})
	}
	return hits, nil
}
