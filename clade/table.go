// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clade

import (
	"sort"
)

// CountTable holds per-taxid counters. Missing entries are zero.
type CountTable struct {
	DirectAssignments map[int]int64
	DirectHits        map[int]int64
	CladeAssignments  map[int]int64
	CladeHits         map[int]int64
}

// NewCountTable creates an empty table.
func NewCountTable() *CountTable {
	return &CountTable{
		DirectAssignments: map[int]int64{},
		DirectHits:        map[int]int64{},
		CladeAssignments:  map[int]int64{},
		CladeHits:         map[int]int64{},
	}
}

// Row is one taxid's counters.
type Row struct {
	Taxid             int
	DirectAssignments int64
	DirectHits        int64
	CladeAssignments  int64
	CladeHits         int64
}

// Row returns the counters of taxid.
func (t *CountTable) Row(taxid int) Row {
	return Row{
		Taxid:             taxid,
		DirectAssignments: t.DirectAssignments[taxid],
		DirectHits:        t.DirectHits[taxid],
		CladeAssignments:  t.CladeAssignments[taxid],
		CladeHits:         t.CladeHits[taxid],
	}
}

// Taxids returns every taxid present in any of the four maps, ascending.
func (t *CountTable) Taxids() []int {
	seen := map[int]struct{}{}
	for _, m := range []map[int]int64{t.DirectAssignments, t.DirectHits, t.CladeAssignments, t.CladeHits} {
		for taxid := range m {
			seen[taxid] = struct{}{}
		}
	}
	taxids := make([]int, 0, len(seen))
	for taxid := range seen {
		taxids = append(taxids, taxid)
	}
	sort.Ints(taxids)
	return taxids
}

// Rows returns one Row per taxid, in ascending taxid order.
func (t *CountTable) Rows() []Row {
	taxids := t.Taxids()
	rows := make([]Row, len(taxids))
	for i, taxid := range taxids {
		rows[i] = t.Row(taxid)
	}
	return rows
}

// Merge adds the counters of o into t.
func (t *CountTable) Merge(o *CountTable) {
	add := func(dst, src map[int]int64) {
		for taxid, n := range src {
			dst[taxid] += n
		}
	}
	add(t.DirectAssignments, o.DirectAssignments)
	add(t.DirectHits, o.DirectHits)
	add(t.CladeAssignments, o.CladeAssignments)
	add(t.CladeHits, o.CladeHits)
}

func (t *CountTable) set(r Row) {
	if r.DirectAssignments != 0 {
		t.DirectAssignments[r.Taxid] = r.DirectAssignments
	}
	if r.DirectHits != 0 {
		t.DirectHits[r.Taxid] = r.DirectHits
	}
	// Clade rows are kept even when zero so that ancestors of counted taxids
	// survive a round trip through a TSV file.
	t.CladeAssignments[r.Taxid] = r.CladeAssignments
	t.CladeHits[r.Taxid] = r.CladeHits
}
