// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clade

import (
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/taxclade/encoding/kraken"
	"github.com/pkg/errors"
)

// CountDirect counts direct assignments and direct hits without touching the
// taxonomy. Each distinct hit taxid of a record counts once. Records for
// which skip returns true are ignored; skip may be nil.
func CountDirect(sc *kraken.Scanner, skip func(readID string) bool) (*CountTable, error) {
	t := NewCountTable()
	for sc.Scan() {
		rec := sc.Record()
		if skip != nil && skip(rec.ReadID) {
			continue
		}
		t.DirectAssignments[rec.Taxid]++
		for _, taxid := range rec.HitTaxids() {
			t.DirectHits[taxid]++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// directRow is one line of a direct count file.
type directRow struct {
	Taxid             int
	DirectAssignments int64
	DirectHits        int64
}

// WriteDirectTSV writes "taxid<TAB>assignments<TAB>hits" for every taxid with
// a direct count, ascending.
func WriteDirectTSV(w io.Writer, t *CountTable) error {
	tw := tsv.NewWriter(w)
	for _, taxid := range t.Taxids() {
		a, h := t.DirectAssignments[taxid], t.DirectHits[taxid]
		if a == 0 && h == 0 {
			continue
		}
		tw.WriteInt64(int64(taxid))
		tw.WriteInt64(a)
		tw.WriteInt64(h)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadDirectTSV parses the output of WriteDirectTSV.
func ReadDirectTSV(r io.Reader) (*CountTable, error) {
	tr := tsv.NewReader(r)
	t := NewCountTable()
	for line := 1; ; line++ {
		var row directRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "direct counts line %d", line)
		}
		if row.DirectAssignments != 0 {
			t.DirectAssignments[row.Taxid] += row.DirectAssignments
		}
		if row.DirectHits != 0 {
			t.DirectHits[row.Taxid] += row.DirectHits
		}
	}
	return t, nil
}
