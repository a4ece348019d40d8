// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clade

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/taxclade/encoding/kraken"
	"github.com/grailbio/taxclade/taxonomy"
	"github.com/pkg/errors"
)

// Opts controls aggregation.
type Opts struct {
	// Parallelism is the number of samples counted at once by CountSamples.
	Parallelism int
	// Skip, if set, excludes reads from counting. It is usually
	// (*dedup.Selection).IsDuplicate.
	Skip func(readID string) bool
	// Restrict, if non-nil, drops every record whose assigned taxid is not in
	// the set. Hits of the remaining records are counted in full.
	Restrict taxonomy.Set
}

// DefaultOpts is the default configuration.
var DefaultOpts = Opts{
	Parallelism: 8,
}

// progressInterval is the number of records between progress log lines.
const progressInterval = 1 << 20

// Aggregator counts assignments and hits up the ancestor chain of every
// record. Aggregator is not threadsafe; use one per sample.
type Aggregator struct {
	g     *taxonomy.Graph
	opts  Opts
	table *CountTable

	// credited holds the taxids whose clade hit counter was already
	// incremented for the current record.
	credited map[int]struct{}
	records  int
	skipped  int
}

// NewAggregator creates an Aggregator over g. g is only read.
func NewAggregator(g *taxonomy.Graph, opts Opts) *Aggregator {
	return &Aggregator{
		g:        g,
		opts:     opts,
		table:    NewCountTable(),
		credited: map[int]struct{}{},
	}
}

// Add counts one record. The record is ignored if Opts.Skip or Opts.Restrict
// exclude it.
func (a *Aggregator) Add(rec *kraken.Record) error {
	if a.opts.Skip != nil && a.opts.Skip(rec.ReadID) {
		a.skipped++
		return nil
	}
	if a.opts.Restrict != nil && !a.opts.Restrict.Has(rec.Taxid) {
		a.skipped++
		return nil
	}
	if err := a.addAssignment(rec.Taxid); err != nil {
		return err
	}
	if err := a.addHits(rec); err != nil {
		return err
	}
	a.records++
	return nil
}

func (a *Aggregator) addAssignment(taxid int) error {
	a.table.DirectAssignments[taxid]++
	return a.g.WalkAncestors(taxid, func(t int) bool {
		a.table.CladeAssignments[t]++
		return true
	})
}

// addHits credits each distinct hit taxid once, and each of their ancestors
// once per record. The walk up from a hit stops at the first ancestor that
// was already credited, since everything above it was credited too.
func (a *Aggregator) addHits(rec *kraken.Record) error {
	for t := range a.credited {
		delete(a.credited, t)
	}
	for _, taxid := range rec.HitTaxids() {
		a.table.DirectHits[taxid]++
		err := a.g.WalkAncestors(taxid, func(t int) bool {
			if _, ok := a.credited[t]; ok {
				return false
			}
			a.credited[t] = struct{}{}
			a.table.CladeHits[t]++
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AddAll counts every record produced by sc. It stops at the first error.
// Taxonomy errors are wrapped with the line number; use errors.Cause to get
// the *taxonomy.MissingParentError.
func (a *Aggregator) AddAll(sc *kraken.Scanner) error {
	for sc.Scan() {
		if err := a.Add(sc.Record()); err != nil {
			return errors.Wrapf(err, "line %d", sc.Line())
		}
		if n := a.records + a.skipped; n%progressInterval == 0 {
			log.Debug.Printf("clade: %d records read, %d counted", n, a.records)
		}
	}
	return sc.Err()
}

// Table returns the counts accumulated so far.
func (a *Aggregator) Table() *CountTable { return a.table }

// Records returns the number of records counted.
func (a *Aggregator) Records() int { return a.records }

// Skipped returns the number of records excluded by Opts.
func (a *Aggregator) Skipped() int { return a.skipped }

// Aggregate counts all classifier records in r.
func Aggregate(g *taxonomy.Graph, r io.Reader, opts Opts) (*CountTable, error) {
	a := NewAggregator(g, opts)
	if err := a.AddAll(kraken.NewScanner(r)); err != nil {
		return nil, err
	}
	return a.Table(), nil
}
